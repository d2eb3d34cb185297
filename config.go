// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"fmt"
	"strconv"

	"github.com/joeycumines/go-utilpkg/jsonenc"
)

// renderMetaConfig renders a Meta packet's config list as a JSON array,
// for attaching to a log line. Reuses jsonenc's string/number encoders
// (the same ones stumpy's Event buffer writer uses) rather than
// hand-rolling escaping a second time in this package.
func renderMetaConfig(items []ConfigItem) string {
	buf := make([]byte, 0, 32*len(items)+2)
	buf = append(buf, '[')
	for i, item := range items {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, `{"key":`...)
		buf = strconv.AppendInt(buf, int64(item.Key), 10)
		buf = append(buf, `,"value":`...)
		buf = appendVariantJSON(buf, item.Data.Value)
		buf = append(buf, '}')
	}
	buf = append(buf, ']')
	return string(buf)
}

func appendVariantJSON(dst []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(dst, "null"...)
	case string:
		return jsonenc.AppendString(dst, x)
	case bool:
		if x {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case int:
		return strconv.AppendInt(dst, int64(x), 10)
	case int64:
		return strconv.AppendInt(dst, x, 10)
	case uint64:
		return strconv.AppendUint(dst, x, 10)
	case float32:
		return jsonenc.AppendFloat32(dst, x)
	case float64:
		return jsonenc.AppendFloat64(dst, x)
	default:
		return jsonenc.AppendString(dst, fmt.Sprintf("%v", x))
	}
}
