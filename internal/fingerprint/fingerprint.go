// Package fingerprint derives the identity used as the dedup key across the funnel.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// Generate returns the hex MD5 of "type:location".
func Generate(exceptionType, location string) string {
	sum := md5.Sum([]byte(exceptionType + ":" + location))
	return hex.EncodeToString(sum[:])
}

// Location renders the originating frame as class.method:line.
func Location(className, methodName string, line int) string {
	var b strings.Builder
	b.WriteString(className)
	b.WriteByte('.')
	b.WriteString(methodName)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(line))
	return b.String()
}

// SimpleName strips everything up to the last '.' of a qualified type name.
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func stripLine(location string) string {
	if i := strings.LastIndexByte(location, ':'); i >= 0 {
		return location[:i]
	}
	return location
}

// ClassOf returns the class part of a location, i.e. everything before the method.
func ClassOf(location string) string {
	frame := stripLine(location)
	if i := strings.LastIndexByte(frame, '.'); i > 0 {
		return frame[:i]
	}
	return ""
}

// MethodOf returns the method part of a location.
func MethodOf(location string) string {
	frame := stripLine(location)
	if i := strings.LastIndexByte(frame, '.'); i >= 0 {
		return frame[i+1:]
	}
	return frame
}
