package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
)

const (
	streamInfoMinLen = 18
	id3HeaderLen     = 10
)

var errNoStreamInfo = errors.New("no STREAMINFO block")

// probes maps a file extension to the function measuring its stream.
var probes = map[string]func(path string) (*AudioInfo, error){
	ExtMP3:  probeMP3,
	ExtFLAC: probeFLAC,
}

// ReadAudioInfo reads audio stream properties (duration, format, sample rate).
func ReadAudioInfo(path string) (*AudioInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	probe, ok := probes[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %q", ext)
	}
	return probe(path)
}

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func mp3Decode(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return mp3.Decode(rc)
}

func flacDecode(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return flac.Decode(rc)
}

func probeMP3(path string) (*AudioInfo, error) {
	return decodeAndMeasure(path, "MP3", false, mp3Decode)
}

// probeFLAC prefers the STREAMINFO header and only decodes when it is
// missing or unparseable, e.g. behind a prepended ID3 tag.
func probeFLAC(path string) (*AudioInfo, error) {
	if info, err := flacHeaderInfo(path); err == nil {
		return info, nil
	}
	return decodeAndMeasure(path, "FLAC", true, flacDecode)
}

func flacHeaderInfo(path string) (*AudioInfo, error) {
	file, err := goflac.ParseFile(path)
	if err != nil {
		return nil, err
	}
	for _, block := range file.Meta {
		if block.Type != goflac.StreamInfo {
			continue
		}
		if info, ok := parseStreamInfo(block.Data); ok {
			return info, nil
		}
	}
	return nil, errNoStreamInfo
}

// parseStreamInfo reads the packed fields of a FLAC STREAMINFO block:
// 20 bits of sample rate, 3 of channels, 5 of bits per sample minus one,
// then 36 bits of total samples, starting at byte 10.
func parseStreamInfo(b []byte) (*AudioInfo, bool) {
	if len(b) < streamInfoMinLen {
		return nil, false
	}
	rate := int(b[10])<<12 | int(b[11])<<4 | int(b[12]>>4)
	bits := (int(b[12]&0x01)<<4 | int(b[13]>>4)) + 1
	samples := int64(b[13] & 0x0F)
	for _, v := range b[14:18] {
		samples = samples<<8 | int64(v)
	}

	info := &AudioInfo{Format: "FLAC", SampleRate: rate, BitDepth: bits}
	if rate > 0 {
		info.Duration = time.Duration(float64(samples) / float64(rate) * float64(time.Second))
	}
	return info, true
}

func decodeAndMeasure(path, format string, skipTag bool, decode decodeFunc) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if skipTag {
		if err := skipID3(f); err != nil {
			return nil, err
		}
	}

	stream, fm, err := decode(f)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	return &AudioInfo{
		Duration:   fm.SampleRate.D(stream.Len()),
		Format:     format,
		SampleRate: int(fm.SampleRate),
		BitDepth:   fm.Precision * 8,
	}, nil
}

// skipID3 positions r after a leading ID3v2 tag, or back at the start when
// there is none.
func skipID3(r io.ReadSeeker) error {
	var hdr [id3HeaderLen]byte
	n, err := io.ReadFull(r, hdr[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	offset := int64(0)
	if n == id3HeaderLen && string(hdr[:3]) == id3Magic {
		// Tag size is a syncsafe integer: 7 bits per byte.
		var size int64
		for _, v := range hdr[6:10] {
			size = size<<7 | int64(v&0x7F)
		}
		offset = id3HeaderLen + size
	}
	_, err = r.Seek(offset, io.SeekStart)
	return err
}
