// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formats

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

type Format func(string) bool

var formats = map[string]Format{
	"date-time":        IsDateTime,
	"date":              IsDate,
	"time":              IsTime,
	"duration":          IsDuration,
	"hostname":          IsHostname,
	"idn-hostname":      IsIDNHostname,
	"email":             IsEmail,
	"idn-email":         IsIDNEmail,
	"ip-address":        IsIPV4,
	"ipv4":              IsIPV4,
	"ipv6":              IsIPV6,
	"uri":               IsURI,
	"uriref":            IsURIRef,
	"uri-reference":     IsURIRef,
	"iri":               IsURI,
	"iri-reference":     IsURIRef,
	"json-pointer":      IsJSONPointer,
	"relative-json-pointer": IsRelativeJSONPointer,
	"uuid":              IsUUID,
	"regex":             IsRegex,
}

func init() {
	formats["format"] = IsFormat
}

// IsFormat reports whether s names a registered format.
func IsFormat(s string) bool {
	_, ok := formats[s]
	return ok
}

func Register(name string, f Format) {
	formats[name] = f
}

func Get(name string) (Format, bool) {
	f, ok := formats[name]
	return f, ok
}

func IsDateTime(s string) bool {
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return true
	}
	return false
}

// https://en.wikipedia.org/wiki/Hostname#Restrictions_on_valid_host_names
func IsHostname(s string) bool {
	// entire hostname (including the delimiting dots but not a trailing dot) has a maximum of 253 ASCII characters
	s = strings.TrimSuffix(s, ".")
	if len(s) > 253 {
		return false
	}

	// Hostnames are composed of series of labels concatenated with dots, as are all domain names
	for _, label := range strings.Split(s, ".") {
		// Each label must be from 1 to 63 characters long
		if labelLen := len(label); labelLen < 1 || labelLen > 63 {
			return false
		}

		// labels could not start with a digit or with a hyphen
		if first := label[0]; (first >= '0' && first <= '9') || (first == '-') {
			return false
		}

		// must not end with a hyphen
		if label[len(label)-1] == '-' {
			return false
		}

		// labels may contain only the ASCII letters 'a' through 'z' (in a case-insensitive manner),
		// the digits '0' through '9', and the hyphen ('-')
		for _, c := range label {
			if valid := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || (c == '-'); !valid {
				return false
			}
		}
	}

	return true
}

// https://en.wikipedia.org/wiki/Email_address
func IsEmail(s string) bool {
	// entire email address to be no more than 254 characters long
	if len(s) > 254 {
		return false
	}

	// email address is generally recognized as having two parts joined with an at-sign
	at := strings.LastIndexByte(s, '@')
	if at == -1 {
		return false
	}
	local := s[0:at]
	domain := s[at+1:]

	// local part may be up to 64 characters long
	if len(local) > 64 {
		return false
	}

	// domain may have a maximum of 255 characters[
	if len(domain) > 255 {
		return false
	}

	// domain must match the requirements for a hostname
	if !IsHostname(domain) {
		return false
	}

	//todo: some validations yet to be implemented

	return true
}

func IsIPV4(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) != 4 {
		return false
	}
	for _, group := range groups {
		n, err := strconv.Atoi(group)
		if err != nil {
			return false
		}
		if n < 0 || n > 255 {
			return false
		}
	}
	return true
}

func IsIPV6(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	return net.ParseIP(s) != nil
}

func IsURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

func IsURIRef(s string) bool {
	_, err := url.Parse(s)
	return err == nil
}

func IsRegex(s string) bool {
	_, err := regexp.Compile(s)
	return err == nil
}

func IsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func IsTime(s string) bool {
	for _, layout := range []string{"15:04:05Z07:00", "15:04:05.999999999Z07:00"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// IsDuration checks the ISO 8601 duration grammar (RFC 3339 appendix A):
// "P" then a run of digit-then-designator pairs, optionally split by "T"
// into date and time components.
func IsDuration(s string) bool {
	if s == "" || s[0] != 'P' {
		return false
	}
	s = s[1:]
	if s == "" {
		return false
	}
	dateDesig, timeDesig := "YMWD", "HMS"
	inTime := false
	i := 0
	seenAny := false
	for i < len(s) {
		if s[i] == 'T' {
			if inTime {
				return false
			}
			inTime = true
			i++
			continue
		}
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start || i >= len(s) {
			return false
		}
		desig := dateDesig
		if inTime {
			desig = timeDesig
		}
		if !strings.ContainsRune(desig, rune(s[i])) {
			return false
		}
		seenAny = true
		i++
	}
	return seenAny
}

// IsIDNHostname puts s in NFC form (via golang.org/x/text) and then checks
// the hostname length limits, counted in runes (253 for the whole name, 1
// to 63 per label), and that no label begins or ends with a hyphen. The
// characters inside a label are not checked.
func IsIDNHostname(s string) bool {
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	strLen := len([]rune(s))
	if strings.HasSuffix(s, ".") {
		strLen--
	}
	if strLen > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		r := []rune(label)
		if len(r) < 1 || len(r) > 63 {
			return false
		}
		if r[0] == '-' || r[len(r)-1] == '-' {
			return false
		}
	}
	return true
}

// IsIDNEmail is IsEmail with the domain part checked via IsIDNHostname
// instead of the ASCII-only IsHostname.
func IsIDNEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at == -1 {
		return false
	}
	local, domain := s[0:at], s[at+1:]
	if len([]rune(local)) > 64 {
		return false
	}
	return IsIDNHostname(domain)
}

func IsJSONPointer(s string) bool {
	if s == "" {
		return true
	}
	if s[0] != '/' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '~' && (i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1')) {
			return false
		}
	}
	return true
}

func IsRelativeJSONPointer(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	rest := s[i:]
	if rest == "#" {
		return true
	}
	return IsJSONPointer(rest)
}

func IsUUID(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return false
	}
	lens := []int{8, 4, 4, 4, 12}
	for i, p := range parts {
		if len(p) != lens[i] {
			return false
		}
		for _, c := range p {
			isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
			if !isHex {
				return false
			}
		}
	}
	return true
}
