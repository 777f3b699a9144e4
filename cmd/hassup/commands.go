package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Yat-Muk/hassup/internal/application"
	"github.com/Yat-Muk/hassup/internal/domain/update"
	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/infra/hass"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
	"github.com/Yat-Muk/hassup/internal/pkg/inputvalidator"
)

const (
	commandTimeout = 60 * time.Second
	loginTimeout   = 15 * time.Second
)

// session 一次子命令執行的依賴與連接
type session struct {
	deps   *AppDependencies
	client *hass.Client
}

// connectSession 初始化依賴並連接，調用方負責 Sync 日誌
func (c *cli) connectSession(ctx context.Context) (*session, error) {
	deps, err := initializeDependencies(&c.opts, true)
	if err != nil {
		return nil, err
	}
	client, err := deps.connect(ctx, c.newClient)
	if err != nil {
		_ = deps.Log.Sync()
		return nil, err
	}
	return &session{deps: deps, client: client}, nil
}

func (c *cli) listCmd() *cobra.Command {
	var (
		showSkipped bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出可安裝的更新",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			s, err := c.connectSession(ctx)
			if err != nil {
				return err
			}
			defer s.deps.Log.Sync()

			snap, err := s.client.UpdateSnapshot(ctx)
			if err != nil {
				return fmt.Errorf("獲取更新列表失敗: %w", err)
			}
			entities := update.FilterWithInstall(snap, showSkipped, s.deps.Localizer.Tag())

			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(entities)
			}
			c.printEntities(entities, s.deps.Localizer)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSkipped, "skipped", false, "包含已跳過的更新")
	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 輸出")
	return cmd
}

// printEntities 以表格輸出
func (c *cli) printEntities(entities []update.Entity, loc *i18n.Localizer) {
	if len(entities) == 0 {
		fmt.Fprintln(c.out, loc.T(i18n.KeyNoUpdates))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Name", loc.T(i18n.KeyInstalled), loc.T(i18n.KeyLatest), "")

	for i, e := range entities {
		var flags []string
		if e.Bump() == update.BumpMajor {
			flags = append(flags, loc.T(i18n.KeyMajor))
		}
		if e.Skipped() {
			flags = append(flags, loc.T(i18n.KeySkipped))
		}
		if e.Attributes.InProgress.Active {
			flags = append(flags, loc.T(i18n.KeyInProgress))
		}
		t.Row(
			strconv.Itoa(i+1),
			e.Name(),
			e.Attributes.InstalledVersion,
			e.Attributes.LatestVersion,
			strings.Join(flags, ", "),
		)
	}
	fmt.Fprintln(c.out, t.String())
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "請求 Home Assistant 檢查更新",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			s, err := c.connectSession(ctx)
			if err != nil {
				return err
			}
			defer s.deps.Log.Sync()

			snap, err := s.client.UpdateSnapshot(ctx)
			if err != nil {
				return fmt.Errorf("獲取更新列表失敗: %w", err)
			}

			count, err := application.NewUpdateChecker(s.client, s.deps.Log).Check(ctx, snap)
			if err != nil {
				page := application.NewUpdatesPage(s.client, s.deps.Localizer, s.deps.Log)
				return fmt.Errorf("%s", page.CheckErrorMessage(err))
			}
			fmt.Fprintf(c.out, "%s (%d)\n", s.deps.Localizer.T(i18n.KeyCheckStarted), count)
			return nil
		},
	}
}

func (c *cli) channelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "顯示 Supervisor 更新頻道",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			s, err := c.connectSession(ctx)
			if err != nil {
				return err
			}
			defer s.deps.Log.Sync()

			if !s.client.IsComponentLoaded(application.ComponentHassio) {
				return errors.ErrSupervisorMissing
			}
			info, err := s.client.FetchSupervisorInfo(ctx)
			if err != nil {
				return fmt.Errorf("獲取 Supervisor 信息失敗: %w", err)
			}

			loc := s.deps.Localizer
			fmt.Fprintf(c.out, "%s: %s\n", loc.T(i18n.KeySupervisor), info.Version)
			fmt.Fprintf(c.out, "%s: %s\n", loc.T(i18n.KeyChannel), info.Channel)
			return nil
		},
	}
	cmd.AddCommand(c.channelToggleCmd())
	return cmd
}

func (c *cli) channelToggleCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "在 stable 與 beta 之間切換",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			s, err := c.connectSession(ctx)
			if err != nil {
				return err
			}
			defer s.deps.Log.Sync()

			if !s.client.IsComponentLoaded(application.ComponentHassio) {
				return errors.ErrSupervisorMissing
			}
			info, err := s.client.FetchSupervisorInfo(ctx)
			if err != nil {
				return fmt.Errorf("獲取 Supervisor 信息失敗: %w", err)
			}

			var confirmer application.Confirmer = application.ConfirmFunc(c.promptConfirm)
			if yes {
				confirmer = application.ConfirmFunc(func(context.Context, application.ConfirmRequest) bool { return true })
			}

			loc := s.deps.Localizer
			toggle := application.NewChannelToggle(s.client, s.deps.Log)
			target, err := toggle.Run(ctx, info, confirmer, application.JoinBetaDialog(loc))
			switch {
			case errors.Is(err, errors.ErrToggleCancelled):
				fmt.Fprintln(c.out, loc.T(i18n.KeyCancel))
				return nil
			case err != nil:
				s.deps.Log.Error("channel toggle failed", zap.Error(err))
				return fmt.Errorf("%s", application.AlertMessage(err))
			}

			fmt.Fprintln(c.out, loc.Tf(i18n.KeyChannelChanged, target.String()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "跳過加入 beta 的確認")
	return cmd
}

// promptConfirm 在終端打印確認框並讀取 y/N
func (c *cli) promptConfirm(ctx context.Context, req application.ConfirmRequest) bool {
	fmt.Fprintln(c.out, req.Title)
	fmt.Fprintln(c.out)
	for _, p := range req.Paragraphs {
		fmt.Fprintln(c.out, p)
	}
	for _, item := range req.Items {
		fmt.Fprintf(c.out, "  - %s\n", item)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "%s [y/N]: ", req.Question)

	answer, err := c.readLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (c *cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "保存 Home Assistant 地址與長期訪問令牌",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := initializeDependencies(&c.opts, true)
			if err != nil {
				return err
			}
			defer deps.Log.Sync()

			current := deps.Config.Get().Server.URL
			fmt.Fprintf(c.out, "Home Assistant URL [%s]: ", current)
			rawURL, err := c.readLine()
			if err != nil && err != io.EOF {
				return fmt.Errorf("讀取地址失敗: %w", err)
			}
			if rawURL == "" {
				rawURL = current
			}

			fmt.Fprint(c.out, "Long-lived access token: ")
			token, err := c.readSecret()
			if err != nil {
				return fmt.Errorf("讀取令牌失敗: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()

			creds := application.Credentials{URL: rawURL, Token: token}
			verify := func(ctx context.Context, creds application.Credentials) error {
				opts := clientOptions(deps.Config.Get())
				opts.URL, opts.Token = creds.URL, creds.Token

				client, err := c.newClient(opts, deps.Log)
				if err != nil {
					return err
				}
				return client.Ping(ctx)
			}
			if err := deps.ConfigSvc.Login(ctx, creds, verify); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "已保存到 %s\n", deps.Paths.ConfigFile)
			return nil
		},
	}
}

// readLine 讀取一行，去除控制字符與首尾空白
func (c *cli) readLine() (string, error) {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.in)
	}
	line, err := c.reader.ReadString('\n')
	line = inputvalidator.SanitizeInput(line)
	line = strings.TrimSpace(inputvalidator.TruncateInput(line, inputvalidator.MaxInputBuffer))
	if err == io.EOF && line != "" {
		err = nil
	}
	return line, err
}

// readTerminalSecret 終端輸入時不回顯，管道輸入時按行讀取
func (c *cli) readTerminalSecret() (string, error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return c.readLine()
}
