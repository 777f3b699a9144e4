package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/infra/hass"
	"github.com/Yat-Muk/hassup/internal/pkg/version"
	"github.com/Yat-Muk/hassup/internal/tui/model"
)

// exitFunc 測試中替換
var exitFunc = os.Exit

func main() {
	if err := newCLI(os.Stdin, os.Stdout).root().Execute(); err != nil {
		exitFunc(1)
	}
}

// cli 持有參數與可替換的外部依賴
type cli struct {
	opts   globalOptions
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader

	// newClient 創建 Home Assistant 客戶端，測試中替換為攔截版本
	newClient clientFactory
	// readSecret 讀取不回顯的令牌
	readSecret func() (string, error)
}

func newCLI(in io.Reader, out io.Writer) *cli {
	c := &cli{in: in, out: out, newClient: hass.NewClient}
	c.readSecret = c.readTerminalSecret
	return c
}

// root 構建完整的命令樹
func (c *cli) root() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hassup",
		Short:         "Home Assistant 更新管理",
		Long:          "在終端中查看 Home Assistant 的可用更新、觸發檢查並切換 Supervisor 頻道",
		Version:       version.Short(),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI()
		},
	}
	rootCmd.SetIn(c.in)
	rootCmd.SetOut(c.out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.opts.dir, "dir", "", "工作目錄 (默認: /etc/hassup 或 ~/.hassup)")
	flags.BoolVar(&c.opts.debug, "debug", false, "開啟調試日誌")
	flags.StringVar(&c.opts.lang, "lang", "", "界面語言，例如 en 或 zh-Hant")

	rootCmd.AddCommand(
		c.listCmd(),
		c.checkCmd(),
		c.channelCmd(),
		c.loginCmd(),
		c.versionCmd(),
	)
	return rootCmd
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "顯示版本信息",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(c.out, version.Info())
		},
	}
}

func (c *cli) runTUI() error {
	deps, err := initializeDependencies(&c.opts, false)
	if err != nil {
		return err
	}
	defer deps.Log.Sync()

	deps.Log.Info("hassup 正在啟動",
		zap.String("version", version.Version),
		zap.String("commit", version.GitCommit),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := deps.connect(ctx, c.newClient)
	if err != nil {
		return err
	}

	// 連接成功後 TUI 接管終端
	redirectStdErr(deps.Paths.StderrFile)

	router := model.NewRouter(deps.newHandlerConfig(ctx, client))
	p := tea.NewProgram(model.NewModel(router), tea.WithAltScreen())

	// 崩潰保護
	defer func() {
		if r := recover(); r != nil {
			_ = p.ReleaseTerminal()
			fmt.Fprintf(c.out, "\n\n程序崩潰: %v\n", r)
			deps.Log.Error("Panic", zap.Any("error", r), zap.String("stack", string(debug.Stack())))
			exitFunc(1)
		}
	}()

	go model.RunStream(ctx, hass.NewStream(client, hass.StreamOptions{}), p.Send)

	if _, err := p.Run(); err != nil {
		deps.Log.Error("程序運行錯誤", zap.Error(err))
		return fmt.Errorf("程序運行錯誤: %w", err)
	}
	deps.Log.Info("hassup 已退出")
	return nil
}
