package midifile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// ErrBadContainer indicates the file is not a standard MIDI file or is
// truncated mid-chunk.
var ErrBadContainer = errors.New("bad MIDI container")

// Info holds the container-level facts derived from one track file.
type Info struct {
	Seconds  float64 // total playable length
	RawBytes int64   // size of the container on disk
}

// defaultTempo is microseconds per quarter note when no tempo event is
// present (120 BPM per the SMF spec).
const defaultTempo = 500000

// FileProber probes MIDI files on the local filesystem.
type FileProber struct{}

// Probe reads the file at path and returns its playable length and raw size.
func (FileProber) Probe(path string) (float64, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", path, err)
	}
	seconds, err := Duration(data)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", path, err)
	}
	return seconds, int64(len(data)), nil
}

type tempoChange struct {
	tick  int
	tempo int // microseconds per quarter note
}

// Duration computes the total playable length in seconds of a standard MIDI
// file. Tempo events from all tracks are merged into one tempo map, which
// matches how sequencers treat format 0 and format 1 files.
func Duration(data []byte) (float64, error) {
	if len(data) < 14 || string(data[0:4]) != "MThd" {
		return 0, fmt.Errorf("%w: missing MThd header", ErrBadContainer)
	}
	if binary.BigEndian.Uint32(data[4:8]) != 6 {
		return 0, fmt.Errorf("%w: unexpected header length", ErrBadContainer)
	}

	division := binary.BigEndian.Uint16(data[12:14])
	if division&0x8000 != 0 {
		// SMPTE time: ticks map to wall time independent of tempo.
		fps := 256 - int(data[12])
		ticksPerFrame := int(data[13])
		if fps <= 0 || ticksPerFrame == 0 {
			return 0, fmt.Errorf("%w: bad SMPTE division", ErrBadContainer)
		}
		maxTick, _, err := walkChunks(data[14:])
		if err != nil {
			return 0, err
		}
		return float64(maxTick) / float64(fps*ticksPerFrame), nil
	}

	ppq := int(division)
	if ppq == 0 {
		return 0, fmt.Errorf("%w: zero ticks per quarter note", ErrBadContainer)
	}

	maxTick, tempos, err := walkChunks(data[14:])
	if err != nil {
		return 0, err
	}

	// Walk the tempo map segment by segment.
	seconds := 0.0
	tick := 0
	tempo := defaultTempo
	for _, tc := range tempos {
		if tc.tick > maxTick {
			break
		}
		seconds += float64(tc.tick-tick) * float64(tempo) / (1e6 * float64(ppq))
		tick = tc.tick
		tempo = tc.tempo
	}
	seconds += float64(maxTick-tick) * float64(tempo) / (1e6 * float64(ppq))
	return seconds, nil
}

// walkChunks parses every MTrk chunk, returning the largest end-of-track tick
// and all tempo changes sorted by tick.
func walkChunks(data []byte) (int, []tempoChange, error) {
	maxTick := 0
	var tempos []tempoChange

	offset := 0
	sawTrack := false
	for offset+8 <= len(data) {
		chunkType := string(data[offset : offset+4])
		chunkLen := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if chunkLen < 0 || offset+chunkLen > len(data) {
			return 0, nil, fmt.Errorf("%w: truncated %s chunk", ErrBadContainer, chunkType)
		}
		if chunkType == "MTrk" {
			sawTrack = true
			endTick, trackTempos, err := walkTrack(data[offset : offset+chunkLen])
			if err != nil {
				return 0, nil, err
			}
			if endTick > maxTick {
				maxTick = endTick
			}
			tempos = append(tempos, trackTempos...)
		}
		offset += chunkLen
	}
	if !sawTrack {
		return 0, nil, fmt.Errorf("%w: no MTrk chunk", ErrBadContainer)
	}

	// Insertion sort keeps equal-tick changes in track order.
	for i := 1; i < len(tempos); i++ {
		for j := i; j > 0 && tempos[j-1].tick > tempos[j].tick; j-- {
			tempos[j-1], tempos[j] = tempos[j], tempos[j-1]
		}
	}
	return maxTick, tempos, nil
}

// walkTrack scans one track chunk's event stream.
func walkTrack(track []byte) (int, []tempoChange, error) {
	tick := 0
	var tempos []tempoChange
	var lastStatus byte

	i := 0
	for i < len(track) {
		delta, n, err := readVarInt(track[i:])
		if err != nil {
			return 0, nil, err
		}
		i += n
		tick += delta

		if i >= len(track) {
			return 0, nil, fmt.Errorf("%w: event after final delta time", ErrBadContainer)
		}

		status := track[i]
		if status < 0x80 {
			// Running status: reuse the previous status byte.
			if lastStatus == 0 {
				return 0, nil, fmt.Errorf("%w: data byte with no running status", ErrBadContainer)
			}
			status = lastStatus
		} else {
			i++
		}

		switch {
		case status == 0xFF: // meta event
			if i+1 >= len(track) {
				return 0, nil, fmt.Errorf("%w: truncated meta event", ErrBadContainer)
			}
			metaType := track[i]
			i++
			length, n, err := readVarInt(track[i:])
			if err != nil {
				return 0, nil, err
			}
			i += n
			if i+length > len(track) {
				return 0, nil, fmt.Errorf("%w: truncated meta payload", ErrBadContainer)
			}
			switch metaType {
			case 0x51: // set tempo
				if length != 3 {
					return 0, nil, fmt.Errorf("%w: tempo event with length %d", ErrBadContainer, length)
				}
				tempo := int(track[i])<<16 | int(track[i+1])<<8 | int(track[i+2])
				tempos = append(tempos, tempoChange{tick: tick, tempo: tempo})
			case 0x2F: // end of track
				return tick, tempos, nil
			}
			i += length
			lastStatus = 0
		case status == 0xF0 || status == 0xF7: // sysex
			length, n, err := readVarInt(track[i:])
			if err != nil {
				return 0, nil, err
			}
			if i+n+length > len(track) {
				return 0, nil, fmt.Errorf("%w: truncated sysex event", ErrBadContainer)
			}
			i += n + length
			lastStatus = 0
		default: // channel voice event
			dataLen := 2
			if hi := status & 0xF0; hi == 0xC0 || hi == 0xD0 {
				dataLen = 1
			}
			if i+dataLen > len(track) {
				return 0, nil, fmt.Errorf("%w: truncated channel event", ErrBadContainer)
			}
			i += dataLen
			lastStatus = status
		}
	}
	return tick, tempos, nil
}

// readVarInt decodes a variable-length quantity, returning the value and the
// number of bytes consumed.
func readVarInt(data []byte) (int, int, error) {
	value := 0
	for i := 0; i < len(data) && i < 4; i++ {
		value = value<<7 | int(data[i]&0x7F)
		if data[i]&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: unterminated variable-length quantity", ErrBadContainer)
}
