// Package pwm implements bit-angle (sorted-level) software PWM for a bank of
// eight channels that share a single serial output line.
//
// Instead of sampling every 1/255 of the refresh period, the encoder emits one
// output change per distinct brightness boundary: channels are sorted by level
// and each one stays in the active mask until its own level's slice of the
// period has elapsed. A full period is covered by at most nine steps.
package pwm

import "sort"

const (
	// NumChannels is the number of independently dimmable channels.
	NumChannels = 8

	// Period is the total length of one refresh period in abstract units.
	Period = 255

	// StepCount is the fixed size of an encoded table: one step per channel
	// plus the trailing all-off remainder.
	StepCount = NumChannels + 1
)

// Levels holds one target duty value per channel; 255 means fully on for the
// whole refresh period.
type Levels [NumChannels]uint8

// Step drives Mask onto the output for Length period units. Bit i of Mask
// corresponds to channel i.
type Step struct {
	Length uint8
	Mask   uint8
}

// Table is one encoded refresh period. Step lengths always sum to Period and
// the active-bit count of Mask never increases across the sequence.
type Table [StepCount]Step

// Encode rebuilds the step table for the given levels.
//
// Channels are sorted ascending by level; equal levels are cleared in
// ascending channel order (stable sort, so the tie-break is part of the
// contract). The working mask starts with all channels active and each
// channel's bit is dropped once its level boundary is crossed, so a channel's
// bit is set for a prefix of the table proportional to its level. The ninth
// step pads the remainder of the period with everything off.
func Encode(levels Levels) Table {
	idx := [NumChannels]int{0, 1, 2, 3, 4, 5, 6, 7}
	sort.SliceStable(idx[:], func(a, b int) bool {
		return levels[idx[a]] < levels[idx[b]]
	})

	var t Table
	mask := uint8(0xFF)
	prev := uint8(0)
	for i, ch := range idx {
		cur := levels[ch]
		t[i] = Step{Length: cur - prev, Mask: mask}
		mask &^= 1 << uint(ch)
		prev = cur
	}
	t[NumChannels] = Step{Length: Period - prev, Mask: 0}
	return t
}
