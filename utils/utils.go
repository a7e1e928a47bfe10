// Copyright (c) 2015 Uber Technologies, Inc.

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrEmptyPort an error for empty port strings
	ErrEmptyPort = errors.New("empty string given for port")
)

// Hostname returns the host name reported by the kernel, or "localhost"
// when it cannot be determined.
func Hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}

// ProcessName returns the base name of the running executable, the
// closest analogue of a service name when none is configured.
func ProcessName() string {
	if len(os.Args) == 0 {
		return ""
	}
	fields := strings.Fields(os.Args[0])
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}

// ParsePort converts port number from string to int.
func ParsePort(portString string) (int, error) {
	if portString == "" {
		return 0, ErrEmptyPort
	}
	port, err := strconv.ParseUint(portString, 10, 16)
	return int(port), err
}
