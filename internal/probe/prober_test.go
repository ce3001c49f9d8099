package probe

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/dubmix/internal/media"
)

const videoJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video",
     "width": 1920, "height": 1080, "r_frame_rate": "30000/1001",
     "disposition": {"attached_pic": 0}},
    {"index": 1, "codec_name": "aac", "codec_type": "audio",
     "sample_rate": "48000"}
  ],
  "format": {"filename": "intro.mp4", "format_name": "mov,mp4", "duration": "10.010000"}
}`

const audioJSON = `{
  "streams": [
    {"index": 0, "codec_name": "pcm_s16le", "codec_type": "audio",
     "sample_rate": "44100", "duration": "4.500000"}
  ],
  "format": {"filename": "vo.wav", "format_name": "wav", "duration": "4.500000"}
}`

func TestParseVideoJSON(t *testing.T) {
	info, err := ParseVideoJSON("/in/intro.mp4", []byte(videoJSON))
	require.NoError(t, err)

	assert.Equal(t, "/in/intro.mp4", info.Path)
	assert.Equal(t, media.Rational{Num: 30000, Den: 1001}, info.FrameRate)
	assert.InDelta(t, 10.01, info.DurationSeconds, 1e-9)
	assert.Equal(t, 1920, info.Width)
	assert.Equal(t, 1080, info.Height)
	assert.True(t, info.HasAudio)
}

func TestParseVideoJSONSkipsAttachedPic(t *testing.T) {
	// Cover art streams report codec_type video but must not be taken as
	// the primary stream.
	data := `{
	  "streams": [
	    {"index": 0, "codec_name": "mjpeg", "codec_type": "video",
	     "width": 600, "height": 600, "r_frame_rate": "0/0",
	     "disposition": {"attached_pic": 1}},
	    {"index": 1, "codec_name": "h264", "codec_type": "video",
	     "width": 1280, "height": 720, "r_frame_rate": "25/1",
	     "disposition": {"attached_pic": 0}}
	  ],
	  "format": {"duration": "8.0"}
	}`
	info, err := ParseVideoJSON("/in/clip.mp4", []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1280, info.Width)
	assert.Equal(t, media.Rational{Num: 25, Den: 1}, info.FrameRate)
	assert.False(t, info.HasAudio)
}

func TestParseVideoJSONNoVideoStream(t *testing.T) {
	data := `{"streams": [{"codec_type": "audio", "sample_rate": "48000"}], "format": {}}`
	_, err := ParseVideoJSON("/in/audio-only.mp4", []byte(data))
	assert.Error(t, err)
}

func TestParseVideoJSONMalformed(t *testing.T) {
	_, err := ParseVideoJSON("/in/x.mp4", []byte("{not json"))
	assert.Error(t, err)
}

func TestParseAudioJSON(t *testing.T) {
	info, err := ParseAudioJSON("/in/vo.wav", []byte(audioJSON))
	require.NoError(t, err)

	assert.Equal(t, "/in/vo.wav", info.Path)
	assert.InDelta(t, 4.5, info.DurationSeconds, 1e-9)
	assert.Equal(t, 44100, info.SampleRate)
}

func TestParseAudioJSONFallsBackToStreamDuration(t *testing.T) {
	data := `{
	  "streams": [{"codec_type": "audio", "sample_rate": "48000", "duration": "3.250000"}],
	  "format": {}
	}`
	info, err := ParseAudioJSON("/in/fx.ogg", []byte(data))
	require.NoError(t, err)
	assert.InDelta(t, 3.25, info.DurationSeconds, 1e-9)
}

func TestParseAudioJSONNoAudioStream(t *testing.T) {
	data := `{"streams": [{"codec_type": "video"}], "format": {}}`
	_, err := ParseAudioJSON("/in/silent.wav", []byte(data))
	assert.Error(t, err)
}

func TestProbeErrorWrapping(t *testing.T) {
	inner := errors.New("exit status 1")
	err := fmt.Errorf("analyzing: %w", &Error{Path: "/in/x.mp4", Err: inner})

	assert.True(t, IsProbeError(err))
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "/in/x.mp4")
	assert.False(t, IsProbeError(errors.New("other")))
}
