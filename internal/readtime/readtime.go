// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package readtime estimates how long a piece of content takes to read.
package readtime

import "strings"

// WordsPerMinute is the assumed reading speed for estimates.
const WordsPerMinute = 200

// Estimate returns the reading time in whole minutes, rounded up.
// Empty content yields 0; any non-empty content yields at least 1.
func Estimate(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
