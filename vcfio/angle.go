package vcfio

import (
	"strings"

	"github.com/pkg/errors"
)

// parseAngleBody parses the Key=Value,Key="quoted value",... list inside
// a VCF meta-information line's <...> body, honouring double-quoted
// values that may themselves contain commas. Written as a manual scan in
// the style of ExaScience/elprep's StringScanner.ParseMetaField rather
// than a generic CSV parser, since the grammar (bare or quoted values,
// terminated by ',' or the closing '>') isn't CSV.
func parseAngleBody(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") || !strings.HasSuffix(s, ">") {
		return nil, errors.Errorf("missing angle brackets: %q", s)
	}
	body := s[1 : len(s)-1]
	fields := make(map[string]string)
	i, n := 0, len(body)
	for i < n {
		for i < n && body[i] == ' ' {
			i++
		}
		keyStart := i
		for i < n && body[i] != '=' {
			i++
		}
		if i >= n {
			return nil, errors.Errorf("missing '=' in meta-information body: %q", body)
		}
		key := body[keyStart:i]
		i++ // skip '='
		var value string
		if i < n && body[i] == '"' {
			i++
			var sb strings.Builder
			for i < n && body[i] != '"' {
				if body[i] == '\\' && i+1 < n {
					i++
				}
				sb.WriteByte(body[i])
				i++
			}
			if i >= n {
				return nil, errors.Errorf("unterminated quoted value in meta-information body: %q", body)
			}
			i++ // skip closing quote
			value = sb.String()
		} else {
			valStart := i
			for i < n && body[i] != ',' {
				i++
			}
			value = body[valStart:i]
		}
		fields[key] = value
		if i < n && body[i] == ',' {
			i++
		}
	}
	return fields, nil
}
