// Package audio synthesizes cue tones as PCM for the ebiten host.
package audio

import (
	"fmt"
	"io"
	"math"
	"time"
)

// DefaultSampleRate matches the ebiten audio context created by the desktop host.
const DefaultSampleRate = 48000

// fade length applied to both ends of every tone to avoid clicks
const fadeDuration = 5 * time.Millisecond

// Tone is one sine note of a cue.
// A zero Frequency produces silence for Duration.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64 // 0.0 ~ 1.0
}

// Samples returns the number of frames covering d at sampleRate.
func Samples(sampleRate int, d time.Duration) int {
	if sampleRate <= 0 || d <= 0 {
		return 0
	}
	return int(math.Round(float64(sampleRate) * d.Seconds()))
}

// SynthesizePCM renders tones back to back as 16-bit signed little-endian stereo PCM,
// the format expected by ebiten's audio.Player.
func SynthesizePCM(sampleRate int, tones []Tone) []byte {
	total := 0
	for _, t := range tones {
		total += Samples(sampleRate, t.Duration)
	}

	pcm := make([]byte, 0, total*4)
	fade := Samples(sampleRate, fadeDuration)
	for _, t := range tones {
		n := Samples(sampleRate, t.Duration)
		vol := clamp01(t.Volume)
		for i := 0; i < n; i++ {
			var v float64
			if t.Frequency > 0 {
				v = math.Sin(2*math.Pi*t.Frequency*float64(i)/float64(sampleRate)) * vol * envelope(i, n, fade)
			}
			s := int16(v * math.MaxInt16)
			// left, right
			pcm = append(pcm, byte(s), byte(s>>8), byte(s), byte(s>>8))
		}
	}
	return pcm
}

// envelope returns a linear attack/release gain for frame i of n.
func envelope(i, n, fade int) float64 {
	if fade <= 0 || n <= 0 {
		return 1
	}
	if fade*2 > n {
		fade = n / 2
		if fade == 0 {
			return 1
		}
	}
	switch {
	case i < fade:
		return float64(i) / float64(fade)
	case i >= n-fade:
		return float64(n-1-i) / float64(fade)
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToneStream serves synthesized PCM to ebiten's audio.NewPlayer.
// Implements io.ReadSeeker.
type ToneStream struct {
	data       []byte
	sampleRate int
	offset     int64
}

// NewToneStream synthesizes tones at sampleRate.
func NewToneStream(sampleRate int, tones []Tone) *ToneStream {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &ToneStream{
		data:       SynthesizePCM(sampleRate, tones),
		sampleRate: sampleRate,
	}
}

// Read reads PCM data into p.
func (s *ToneStream) Read(p []byte) (n int, err error) {
	if s.offset >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n = copy(p, s.data[s.offset:])
	s.offset += int64(n)
	return n, nil
}

// Seek sets the offset for the next Read.
func (s *ToneStream) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = s.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if newOffset < 0 {
		return 0, fmt.Errorf("negative position: %d", newOffset)
	}
	s.offset = newOffset
	return newOffset, nil
}

// Length returns the total length of the PCM data in bytes.
func (s *ToneStream) Length() int64 {
	return int64(len(s.data))
}

// SampleRate returns the sample rate in Hz.
func (s *ToneStream) SampleRate() int {
	return s.sampleRate
}
