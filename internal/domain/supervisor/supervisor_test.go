package supervisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_Opposite(t *testing.T) {
	tests := []struct {
		in     Channel
		want   Channel
		wantOK bool
	}{
		{ChannelStable, ChannelBeta, true},
		{ChannelBeta, ChannelStable, true},
		{ChannelDev, "", false},
		{Channel("nightly"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, ok := tt.in.Opposite()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChannel(t *testing.T) {
	c, err := ParseChannel(" Beta ")
	require.NoError(t, err)
	assert.Equal(t, ChannelBeta, c)

	_, err = ParseChannel("nightly")
	assert.Error(t, err)
}

func TestInfo_CanToggleChannel(t *testing.T) {
	var nilInfo *Info
	assert.False(t, nilInfo.CanToggleChannel())
	assert.True(t, (&Info{Channel: ChannelStable}).CanToggleChannel())
	assert.True(t, (&Info{Channel: ChannelBeta}).CanToggleChannel())
	assert.False(t, (&Info{Channel: ChannelDev}).CanToggleChannel())
}
