// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"fmt"
	"reflect"
	"unsafe"
)

// sourceKeyKind tags the union member held by a SourceKey. A bare fd of
// 0 and a pointer-derived key whose token happens to be 0 would
// otherwise be indistinguishable. Tagging the kind keeps the two key
// spaces disjoint regardless of numeric value.
type sourceKeyKind uint8

const (
	sourceKeyFD sourceKeyKind = iota
	sourceKeyPollDescriptor
	sourceKeyChannel
)

// SourceKey identifies a registered source across Add/Remove calls. It is
// a tagged union over three shapes: a raw file descriptor, a caller-owned
// poll descriptor (identified by address), or a platform I/O channel
// handle (also identified by address). Two SourceKey
// values are equal (and thus collide in the registry) only if they share
// both kind and payload, so construct values only via [FDKey],
// [PollDescriptorKey], or [ChannelKey].
type SourceKey struct {
	kind  sourceKeyKind
	fd    int
	token uintptr
}

// FDKey identifies a source by raw file descriptor. fd may be -1 to denote
// a pure timer source with no associated descriptor.
func FDKey(fd int) SourceKey {
	return SourceKey{kind: sourceKeyFD, fd: fd}
}

// PollDescriptorKey identifies a source by the address of a caller-owned
// PollDescriptor. The pointer is never dereferenced by the registry; only
// its identity is used.
func PollDescriptorKey(p *PollDescriptor) SourceKey {
	return SourceKey{kind: sourceKeyPollDescriptor, token: uintptr(unsafe.Pointer(p))}
}

// ChannelKey identifies a source by the address of a platform I/O channel
// value. Any comparable pointer-shaped handle may be used; the session
// never dereferences it.
func ChannelKey(p any) SourceKey {
	return SourceKey{kind: sourceKeyChannel, token: channelToken(p)}
}

// channelToken extracts a stable identity for any pointer-shaped handle
// (pointer, channel, func, map, or unsafe.Pointer), so ChannelKey can accept
// whatever concrete type a platform I/O channel takes.
func channelToken(p any) uintptr {
	if p == nil {
		return 0
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Func, reflect.Map, reflect.UnsafePointer:
		return v.Pointer()
	default:
		panic(fmt.Sprintf("acqsession: ChannelKey requires a pointer-shaped handle, got %T", p))
	}
}

// String renders the key for diagnostics (log fields, panics, error
// messages); it is not meant to be parsed.
func (k SourceKey) String() string {
	switch k.kind {
	case sourceKeyFD:
		return fmt.Sprintf("fd(%d)", k.fd)
	case sourceKeyPollDescriptor:
		return fmt.Sprintf("pollfd(%#x)", k.token)
	case sourceKeyChannel:
		return fmt.Sprintf("channel(%#x)", k.token)
	default:
		return fmt.Sprintf("sourcekey(kind=%d)", k.kind)
	}
}
