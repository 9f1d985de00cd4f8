package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/duoplay/internal/playlist"
)

// Separators. Values are not escaped: a field containing either one
// corrupts the record it travels in.
const (
	FieldSeparator  = "\t"
	RecordSeparator = "\n"
)

// AllPlaylists is the RemovePlaylist payload meaning "every playlist".
const AllPlaylists = "0"

// ErrDecode matches every *DecodeError.
var ErrDecode = errors.New("protocol decode error")

// DecodeError reports a malformed payload. The message it belongs to must
// be discarded as a whole.
type DecodeError struct {
	Key    string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Key, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

func decodeErr(key, format string, args ...any) error {
	return &DecodeError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// HasSeparator reports whether s would break record boundaries on the wire.
func HasSeparator(s string) bool {
	return strings.ContainsAny(s, FieldSeparator+RecordSeparator)
}

// Encode renders m as a key/value pair.
func Encode(m Message) (key, value string) {
	key = m.Kind().String()
	switch m := m.(type) {
	case CommandMessage:
		value = m.Command.String()
	case PlaybackItem:
		value = m.TrackID
	case CurrentPlaylist:
		value = m.Name
	case MainPlaylist:
		var b strings.Builder
		b.WriteString(m.Name)
		b.WriteString(RecordSeparator)
		for _, t := range m.Tracks {
			b.WriteString(strings.Join([]string{t.ID, t.Title, t.Artist, FormatDuration(t.Duration)}, FieldSeparator))
			b.WriteString(RecordSeparator)
		}
		value = b.String()
	case PlaylistSnapshot:
		var b strings.Builder
		b.WriteString(m.Name)
		b.WriteString(RecordSeparator)
		for _, id := range m.TrackIDs {
			b.WriteString(id)
			b.WriteString(RecordSeparator)
		}
		value = b.String()
	case NewPlaylist:
		value = m.Name
	case RemovePlaylist:
		value = m.Name
		if m.All {
			value = AllPlaylists
		}
	case AddToPlaylist:
		value = m.Playlist + FieldSeparator + m.TrackID
	case RemoveFromPlaylist:
		value = m.Playlist + FieldSeparator + m.TrackID
	}
	return key, value
}

// Decode parses a key/value pair. Unknown keys, unknown commands and
// payloads with unexpected field or record counts are *DecodeError.
func Decode(key, value string) (Message, error) {
	kind, ok := ParseKind(key)
	if !ok {
		return nil, decodeErr(key, "unknown message kind")
	}

	switch kind {
	case KindMessage:
		cmd, ok := ParseCommand(value)
		if !ok {
			return nil, decodeErr(key, "unknown command %q", value)
		}
		return CommandMessage{Command: cmd}, nil
	case KindMediaPlaybackItem:
		id, err := singleField(key, value)
		if err != nil {
			return nil, err
		}
		return PlaybackItem{TrackID: id}, nil
	case KindCurrentPlaylist:
		name, err := singleField(key, value)
		if err != nil {
			return nil, err
		}
		return CurrentPlaylist{Name: name}, nil
	case KindMainPlaylist:
		return decodeMainPlaylist(key, value)
	case KindPlaylist:
		return decodePlaylist(key, value)
	case KindNewPlaylist:
		name, err := singleField(key, value)
		if err != nil {
			return nil, err
		}
		return NewPlaylist{Name: name}, nil
	case KindRemovePlaylist:
		name, err := singleField(key, value)
		if err != nil {
			return nil, err
		}
		if name == AllPlaylists {
			return RemovePlaylist{All: true}, nil
		}
		return RemovePlaylist{Name: name}, nil
	case KindAddToPlaylist:
		name, id, err := pair(key, value)
		if err != nil {
			return nil, err
		}
		return AddToPlaylist{Playlist: name, TrackID: id}, nil
	case KindRemoveFromPlaylist:
		name, id, err := pair(key, value)
		if err != nil {
			return nil, err
		}
		return RemoveFromPlaylist{Playlist: name, TrackID: id}, nil
	}
	return nil, decodeErr(key, "unhandled message kind")
}

func singleField(key, value string) (string, error) {
	if value == "" {
		return "", decodeErr(key, "empty payload")
	}
	if HasSeparator(value) {
		return "", decodeErr(key, "expected a single field")
	}
	return value, nil
}

func pair(key, value string) (string, string, error) {
	fields := strings.Split(value, FieldSeparator)
	if len(fields) != 2 {
		return "", "", decodeErr(key, "expected 2 fields, got %d", len(fields))
	}
	if strings.Contains(value, RecordSeparator) {
		return "", "", decodeErr(key, "unexpected record separator")
	}
	if fields[0] == "" || fields[1] == "" {
		return "", "", decodeErr(key, "empty field")
	}
	return fields[0], fields[1], nil
}

// records splits a snapshot payload into its name and non-empty track records.
func records(key, value string) (string, []string, error) {
	parts := strings.Split(value, RecordSeparator)
	name := parts[0]
	if name == "" {
		return "", nil, decodeErr(key, "missing playlist name")
	}
	if strings.Contains(name, FieldSeparator) {
		return "", nil, decodeErr(key, "playlist name record has more than one field")
	}

	recs := make([]string, 0, len(parts)-1)
	for _, r := range parts[1:] {
		if r != "" {
			recs = append(recs, r)
		}
	}
	return name, recs, nil
}

func decodeMainPlaylist(key, value string) (Message, error) {
	name, recs, err := records(key, value)
	if err != nil {
		return nil, err
	}

	tracks := make([]playlist.Track, 0, len(recs))
	for i, r := range recs {
		fields := strings.Split(r, FieldSeparator)
		if len(fields) != 4 {
			return nil, decodeErr(key, "record %d: expected 4 fields, got %d", i+1, len(fields))
		}
		d, err := ParseDuration(fields[3])
		if err != nil {
			return nil, decodeErr(key, "record %d: %v", i+1, err)
		}
		tracks = append(tracks, playlist.Track{
			ID:       fields[0],
			Path:     fields[0],
			Title:    fields[1],
			Artist:   fields[2],
			Duration: d,
		})
	}
	return MainPlaylist{Name: name, Tracks: tracks}, nil
}

func decodePlaylist(key, value string) (Message, error) {
	name, recs, err := records(key, value)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(recs))
	for i, r := range recs {
		if strings.Contains(r, FieldSeparator) {
			return nil, decodeErr(key, "record %d: expected 1 field", i+1)
		}
		ids = append(ids, r)
	}
	return PlaylistSnapshot{Name: name, TrackIDs: ids}, nil
}

// FormatDuration renders d as hh:mm:ss. Hours are total hours and may
// exceed two digits. Sub-second precision is dropped.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// ParseDuration parses the hh:mm:ss form written by FormatDuration.
func ParseDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		n[i] = v
	}
	if n[1] > 59 || n[2] > 59 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(n[0])*time.Hour + time.Duration(n[1])*time.Minute + time.Duration(n[2])*time.Second, nil
}
