package kernel

// The group reduction folds the scratch slice as a binary tree: each
// round combines the lower half of the live width with the upper half,
// then halves the width. Widths shrink by ceil halving so odd widths
// never strand a live slot: width 3 pairs slot 0 with slot 2 and carries
// slot 1 into the next round.

// halfUp is the ceil half of a tree width, and also the offset between a
// slot and its combine partner in that round.
func halfUp(width int) int {
	return (width + 1) / 2
}

// RoundCount returns the number of barrier-separated combine rounds the
// group reduction performs for a block size: ceil(log2(blockSize)). It
// depends only on the block size, never on the problem size, so every
// lane of a group executes the same barrier sequence.
func RoundCount(blockSize int) int {
	rounds := 0
	for width := blockSize; width > 1; width = halfUp(width) {
		rounds++
	}
	return rounds
}
