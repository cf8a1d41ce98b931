package ppm

// Core format constants that never change

const (
	// Type tags
	TagBinary = "P6" // raw binary RGB triplets
	TagASCII  = "P3" // whitespace separated decimal samples

	TagLength = 2

	// CommentMarker introduces a comment running to end of line
	CommentMarker = '#'

	// Separator is the single whitespace byte written between the header and pixel data
	Separator = '\n'

	// ExpansionRatio is the number of carrier bytes spent per payload byte:
	// every payload byte is split into four 2-bit groups.
	ExpansionRatio = 4

	// BitsPerCarrierByte is the number of low-order bits replaced in each carrier byte
	BitsPerCarrierByte = 2

	// LowBitsMask selects the bits replaced in each carrier byte
	LowBitsMask byte = 0x03
)

// Parser bounds for attacker-controlled header text
const (
	MaxCommentLength     = 16  // capacity comment text, digits only
	MaxCommentLineLength = 256 // any comment line
	MaxTokenLength       = 10  // width, height, max color value
	MaxColorValueLimit   = 65535
)
