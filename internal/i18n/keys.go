package i18n

// 頁面文案
const (
	KeyCaption          = "ui.panel.config.updates.caption"
	KeyCheckUpdates     = "ui.panel.config.updates.check_updates"
	KeyShowSkipped      = "ui.panel.config.updates.show_skipped"
	KeyHideSkipped      = "ui.panel.config.updates.hide_skipped"
	KeyJoinBeta         = "ui.panel.config.updates.join_beta"
	KeyLeaveBeta        = "ui.panel.config.updates.leave_beta"
	KeyNoUpdates        = "ui.panel.config.updates.no_updates"
	KeyCheckingUpdates  = "ui.panel.config.updates.checking_updates"
	KeyNoUpdateEntities = "ui.panel.config.updates.no_update_entities"
	KeyUpdateError      = "ui.panel.config.updates.update_error"

	KeyMenu   = "ui.common.menu"
	KeyCancel = "ui.common.cancel"
	KeyOK     = "ui.common.ok"
)

// 加入 Beta 確認框
const (
	KeyBetaTitle        = "ui.dialogs.join_beta_channel.title"
	KeyBetaWarning      = "ui.dialogs.join_beta_channel.warning"
	KeyBetaBackup       = "ui.dialogs.join_beta_channel.backup"
	KeyBetaReleaseItems = "ui.dialogs.join_beta_channel.release_items"
	KeyBetaConfirm      = "ui.dialogs.join_beta_channel.confirm"
)

// 終端界面
const (
	KeyConnecting     = "hassup.tui.connecting"
	KeyConnected      = "hassup.tui.connected"
	KeyDisconnected   = "hassup.tui.disconnected"
	KeyInputPrompt    = "hassup.tui.input_prompt"
	KeyDetailHint     = "hassup.tui.detail_hint"
	KeyQuit           = "hassup.tui.quit"
	KeyBack           = "hassup.tui.back"
	KeyInvalidInput   = "hassup.tui.invalid_input"
	KeyApplying       = "hassup.tui.applying"
	KeyChannelChanged = "hassup.tui.channel_changed"
	KeyInstalled      = "hassup.tui.installed"
	KeyLatest         = "hassup.tui.latest"
	KeySkipped        = "hassup.tui.skipped"
	KeyInProgress     = "hassup.tui.in_progress"
	KeyReleaseURL     = "hassup.tui.release_url"
	KeyAutoUpdate     = "hassup.tui.auto_update"
	KeySupervisor     = "hassup.tui.supervisor"
	KeyChannel        = "hassup.tui.channel"
	KeyMajor          = "hassup.tui.major"
	KeyCheckStarted   = "hassup.tui.check_started"
	KeyConfirmHint    = "hassup.tui.confirm_hint"
	KeyAlertTitle     = "hassup.tui.alert_title"
	KeyDetailTitle    = "hassup.tui.detail_title"
	KeyReleaseSummary = "hassup.tui.release_summary"
	KeyRowOutOfRange  = "hassup.tui.row_out_of_range"
)

// BetaReleaseItems 加入 Beta 後受影響的組件
var BetaReleaseItems = []string{
	"Home Assistant Core",
	"Home Assistant Supervisor",
	"Home Assistant Operating System",
}
