package core

import (
	"hash/fnv"
	"strings"
)

// colorPalette mirrors the tags the web client renders. Order matters:
// changing it reshuffles every user's color.
var colorPalette = [...]string{
	"#e57373",
	"#f06292",
	"#ba68c8",
	"#9575cd",
	"#7986cb",
	"#64b5f6",
	"#4dd0e1",
	"#4db6ac",
	"#81c784",
	"#aed581",
	"#ffd54f",
	"#ffb74d",
	"#ff8a65",
	"#a1887f",
}

// ColorFor maps a display name to a stable color tag. Case-insensitive so
// the color survives a leave-and-rejoin with different capitalization.
func ColorFor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}
