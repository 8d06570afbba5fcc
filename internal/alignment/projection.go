package alignment

import (
	"fmt"

	"detailist/internal/image"
)

// Axis selects the direction a projection profile runs along.
type Axis int

const (
	// AxisHorizontal yields one sum per column (length = width).
	AxisHorizontal Axis = iota
	// AxisVertical yields one sum per row (length = height).
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// channelPriority lists the HSV channels tried, in order, when picking the
// channel that carries signal for alignment. fallbackChannel is used when
// none of them does.
var channelPriority = []int{image.ChannelHue, image.ChannelValue}

const fallbackChannel = image.ChannelSaturation

// Project reduces one channel of buf to a 1-D profile along axis.
func Project(buf *image.Buffer, channel int, axis Axis) ([]uint64, error) {
	if channel < 0 || channel >= image.Channels {
		return nil, fmt.Errorf("project channel %d: %w", channel, image.ErrChannelRange)
	}

	var profile []uint64
	switch axis {
	case AxisHorizontal:
		profile = make([]uint64, buf.Width)
		for y := 0; y < buf.Height; y++ {
			row := buf.Pix[y*buf.Width*image.Channels:]
			for x := 0; x < buf.Width; x++ {
				profile[x] += uint64(row[x*image.Channels+channel])
			}
		}
	case AxisVertical:
		profile = make([]uint64, buf.Height)
		for y := 0; y < buf.Height; y++ {
			row := buf.Pix[y*buf.Width*image.Channels:]
			var sum uint64
			for x := 0; x < buf.Width; x++ {
				sum += uint64(row[x*image.Channels+channel])
			}
			profile[y] = sum
		}
	default:
		return nil, fmt.Errorf("unknown axis %d", axis)
	}
	return profile, nil
}

// DominantChannel returns the first channel in priority order whose total
// over the HSV buffer is non-zero.
func DominantChannel(hsv *image.Buffer) int {
	for _, ch := range channelPriority {
		if channelTotal(hsv, ch) != 0 {
			return ch
		}
	}
	return fallbackChannel
}

func channelTotal(buf *image.Buffer, channel int) uint64 {
	var total uint64
	for i := channel; i < len(buf.Pix); i += image.Channels {
		total += uint64(buf.Pix[i])
	}
	return total
}
