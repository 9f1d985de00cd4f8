//nolint:goconst // test file with repeated string literals
package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/duoplay/internal/playlist"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		msg       Message
		wantKey   string
		wantValue string
	}{
		{
			name:      "command",
			msg:       CommandMessage{Command: CommandLeaveBackground},
			wantKey:   "Message",
			wantValue: "LeaveBackground",
		},
		{
			name:      "playback item",
			msg:       PlaybackItem{TrackID: "/music/a.mp3"},
			wantKey:   "MediaPlaybackItem",
			wantValue: "/music/a.mp3",
		},
		{
			name: "main playlist",
			msg: MainPlaylist{Name: "All tracks", Tracks: []playlist.Track{
				{ID: "/a.mp3", Title: "A", Artist: "X", Duration: 3 * time.Minute},
				{ID: "/b.mp3", Title: "B", Artist: "Y", Duration: 2*time.Minute + 30*time.Second},
			}},
			wantKey:   "MainPlaylist",
			wantValue: "All tracks\n/a.mp3\tA\tX\t00:03:00\n/b.mp3\tB\tY\t00:02:30\n",
		},
		{
			name:      "playlist",
			msg:       PlaylistSnapshot{Name: "Drive", TrackIDs: []string{"/a.mp3", "/b.mp3"}},
			wantKey:   "Playlist",
			wantValue: "Drive\n/a.mp3\n/b.mp3\n",
		},
		{
			name:      "empty playlist",
			msg:       PlaylistSnapshot{Name: "Drive"},
			wantKey:   "Playlist",
			wantValue: "Drive\n",
		},
		{
			name:      "remove all",
			msg:       RemovePlaylist{All: true},
			wantKey:   "RemovePlaylist",
			wantValue: "0",
		},
		{
			name:      "add to playlist",
			msg:       AddToPlaylist{Playlist: "Drive", TrackID: "XYZ"},
			wantKey:   "AddToPlaylist",
			wantValue: "Drive\tXYZ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value := Encode(tt.msg)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	msgs := []Message{
		CommandMessage{Command: CommandPlay},
		CommandMessage{Command: CommandPause},
		CommandMessage{Command: CommandEnterBackground},
		CommandMessage{Command: CommandLeaveBackground},
		CommandMessage{Command: CommandNext},
		CommandMessage{Command: CommandPrevious},
		PlaybackItem{TrackID: "/music/a.mp3"},
		CurrentPlaylist{Name: "Drive"},
		MainPlaylist{Name: "All tracks", Tracks: []playlist.Track{
			{ID: "/a.mp3", Path: "/a.mp3", Title: "A", Artist: "X", Duration: 3 * time.Minute},
			{ID: "/long.flac", Path: "/long.flac", Title: "Long", Artist: "Y", Duration: 101*time.Hour + 59*time.Second},
		}},
		MainPlaylist{Name: "All tracks", Tracks: []playlist.Track{}},
		PlaylistSnapshot{Name: "Drive", TrackIDs: []string{"/a.mp3", "/a.mp3"}},
		NewPlaylist{Name: "Hits"},
		RemovePlaylist{Name: "Hits"},
		RemovePlaylist{All: true},
		AddToPlaylist{Playlist: "Drive", TrackID: "/a.mp3"},
		RemoveFromPlaylist{Playlist: "Drive", TrackID: "/a.mp3"},
	}

	for _, m := range msgs {
		t.Run(m.Kind().String(), func(t *testing.T) {
			key, value := Encode(m)
			got, err := Decode(key, value)
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestRoundTrip_Playlist(t *testing.T) {
	p := playlist.New("Drive")
	p.Add(
		playlist.Track{ID: "/a.mp3", Path: "/a.mp3", Title: "A", Artist: "X", Duration: 3 * time.Minute},
		playlist.Track{ID: "/b.mp3", Path: "/b.mp3", Title: "B", Artist: "Y", Duration: 150 * time.Second},
	)

	key, value := Encode(MainSnapshotOf(p))
	got, err := Decode(key, value)
	require.NoError(t, err)

	main, ok := got.(MainPlaylist)
	require.True(t, ok)
	decoded := playlist.New(main.Name)
	decoded.Add(main.Tracks...)

	assert.Equal(t, p.Name(), decoded.Name())
	assert.Equal(t, p.Tracks(), decoded.Tracks())
	assert.Equal(t, p.TotalDuration(), decoded.TotalDuration())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown kind", "Shuffle", "on"},
		{"unknown command", "Message", "Stop"},
		{"empty playback item", "MediaPlaybackItem", ""},
		{"playback item with tab", "MediaPlaybackItem", "a\tb"},
		{"main missing name", "MainPlaylist", ""},
		{"main name with tab", "MainPlaylist", "All\ttracks\n"},
		{"main three fields", "MainPlaylist", "All\n/a.mp3\tA\t00:03:00\n"},
		{"main five fields", "MainPlaylist", "All\n/a.mp3\tA\tX\t00:03:00\textra\n"},
		{"main bad duration", "MainPlaylist", "All\n/a.mp3\tA\tX\t3m\n"},
		{"main minutes overflow", "MainPlaylist", "All\n/a.mp3\tA\tX\t00:75:00\n"},
		{"playlist two fields", "Playlist", "Drive\n/a.mp3\tA\n"},
		{"playlist missing name", "Playlist", "\n/a.mp3\n"},
		{"add single field", "AddToPlaylist", "Drive"},
		{"add three fields", "AddToPlaylist", "Drive\tA\tB"},
		{"add empty track", "AddToPlaylist", "Drive\t"},
		{"remove from newline", "RemoveFromPlaylist", "Drive\tA\nB"},
		{"new playlist empty", "NewPlaylist", ""},
		{"remove playlist newline", "RemovePlaylist", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode(tt.key, tt.value)
			assert.Nil(t, msg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.key, de.Key)
		})
	}
}

func TestDecode_SkipsEmptyRecords(t *testing.T) {
	got, err := Decode("Playlist", "Drive\n/a.mp3\n\n/b.mp3\n")
	require.NoError(t, err)
	assert.Equal(t, PlaylistSnapshot{Name: "Drive", TrackIDs: []string{"/a.mp3", "/b.mp3"}}, got)
}

func TestDecode_AddToPlaylistUnknownTrack(t *testing.T) {
	// Decoding succeeds; resolving the id is the receiver's job.
	got, err := Decode("AddToPlaylist", "Drive\tXYZ")
	require.NoError(t, err)
	assert.Equal(t, AddToPlaylist{Playlist: "Drive", TrackID: "XYZ"}, got)
}

func TestSeparatorInTitleCorruptsRecord(t *testing.T) {
	m := MainPlaylist{Name: "All", Tracks: []playlist.Track{
		{ID: "/a.mp3", Path: "/a.mp3", Title: "Tab\there", Artist: "X", Duration: time.Second},
	}}
	assert.True(t, HasSeparator(m.Tracks[0].Title))

	key, value := Encode(m)
	_, err := Decode(key, value)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{3 * time.Minute, "00:03:00"},
		{5*time.Minute + 30*time.Second, "00:05:30"},
		{time.Hour + 2*time.Minute + 3*time.Second + 900*time.Millisecond, "01:02:03"},
		{100 * time.Hour, "100:00:00"},
		{-time.Second, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestParseKind(t *testing.T) {
	for k := KindMessage; k <= KindRemoveFromPlaylist; k++ {
		got, ok := ParseKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("Unknown")
	assert.False(t, ok)
}

func TestCommand_IsLifecycle(t *testing.T) {
	assert.True(t, CommandEnterBackground.IsLifecycle())
	assert.True(t, CommandLeaveBackground.IsLifecycle())
	assert.False(t, CommandPlay.IsLifecycle())
	assert.False(t, CommandPause.IsLifecycle())
}
