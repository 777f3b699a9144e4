package supervisor

import (
	"fmt"
	"strings"
)

// Channel Supervisor 發行通道
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelBeta   Channel = "beta"
	ChannelDev    Channel = "dev"
)

// ParseChannel 解析通道字符串
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelStable, ChannelBeta, ChannelDev:
		return c, nil
	default:
		return "", fmt.Errorf("未知的發行通道: %q", s)
	}
}

// Opposite 返回切換目標：stable <-> beta
// dev 通道不參與切換，返回 false
func (c Channel) Opposite() (Channel, bool) {
	switch c {
	case ChannelStable:
		return ChannelBeta, true
	case ChannelBeta:
		return ChannelStable, true
	default:
		return "", false
	}
}

func (c Channel) String() string { return string(c) }

// Info Supervisor 狀態信息 (GET /supervisor/info 的子集)
type Info struct {
	Channel         Channel `json:"channel"`
	Version         string  `json:"version"`
	VersionLatest   string  `json:"version_latest"`
	UpdateAvailable bool    `json:"update_available"`
	Healthy         bool    `json:"healthy"`
	Supported       bool    `json:"supported"`
	Arch            string  `json:"arch"`
}

// CanToggleChannel 只有 stable/beta 可以切換
func (i *Info) CanToggleChannel() bool {
	if i == nil {
		return false
	}
	_, ok := i.Channel.Opposite()
	return ok
}

// Options Supervisor 可寫選項 (部分字段)
type Options struct {
	Channel Channel `json:"channel,omitempty"`
}
