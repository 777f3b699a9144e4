package state

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	ttea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/hassup/internal/pkg/inputvalidator"
	"github.com/Yat-Muk/hassup/internal/tui/style"
)

// View 定義視圖枚舉
type View int

const (
	UpdatesView View = iota
	// ConfirmView 加入 Beta 確認框
	ConfirmView
	AlertView
	// DetailView 單個更新詳情
	DetailView
)

func (v View) String() string {
	switch v {
	case UpdatesView:
		return "updates"
	case ConfirmView:
		return "confirm"
	case AlertView:
		return "alert"
	case DetailView:
		return "detail"
	default:
		return "unknown"
	}
}

// StatusType 狀態類型
type StatusType int

const (
	StatusReady StatusType = iota
	StatusSuccess
	StatusError
	StatusInfo
	StatusWarn
)

// Color 狀態欄顏色
func (t StatusType) Color() lipgloss.Color {
	switch t {
	case StatusSuccess:
		return style.StatusGreen
	case StatusError:
		return style.StatusRed
	case StatusWarn:
		return style.StatusYellow
	default:
		return style.Aurora3
	}
}

// StatusMsg 狀態欄消息
type StatusMsg struct {
	Type    StatusType
	Message string
	Detail  string
}

// UIState UI 核心狀態
type UIState struct {
	CurrentView  View
	PreviousView View // 用於返回
	TextInput    textinput.Model
	Spinner      spinner.Model
	Width        int
	Height       int
	Status       StatusMsg
}

// NewUIState 創建 UI 狀態
func NewUIState() *UIState {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = inputvalidator.MaxMenuInput
	ti.Width = 20
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(style.Aurora2)

	return &UIState{
		CurrentView: UpdatesView,
		TextInput:   ti,
		Spinner:     s,
		Width:       80,
		Height:      24,
		Status:      StatusMsg{Type: StatusReady},
	}
}

// SwitchView 切換視圖
func (s *UIState) SwitchView(v View) ttea.Cmd {
	s.PreviousView = s.CurrentView
	s.CurrentView = v
	s.TextInput.Reset()

	// 錯誤狀態保留給用戶看
	if s.Status.Type != StatusError {
		s.Status = StatusMsg{Type: StatusReady}
	}

	return s.TextInput.Focus()
}

// SetStatus 設置狀態欄消息
func (s *UIState) SetStatus(t StatusType, msg, detail string) {
	s.Status = StatusMsg{
		Type:    t,
		Message: msg,
		Detail:  detail,
	}
}

// ClearStatus 清空狀態欄
func (s *UIState) ClearStatus() {
	s.Status = StatusMsg{Type: StatusReady}
}

// UpdateInput 更新輸入框
func (s *UIState) UpdateInput(msg ttea.Msg) ttea.Cmd {
	var cmd ttea.Cmd
	s.TextInput, cmd = s.TextInput.Update(msg)
	return cmd
}

func (s *UIState) GetInputBuffer() string {
	return s.TextInput.Value()
}

func (s *UIState) ClearInput() {
	s.TextInput.Reset()
}

// UpdateSize 更新尺寸
func (s *UIState) UpdateSize(w, h int) {
	s.Width = w
	s.Height = h
}
