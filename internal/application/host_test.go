package application

import (
	"context"
	"sync"

	"github.com/Yat-Muk/hassup/internal/domain/supervisor"
	"github.com/Yat-Muk/hassup/internal/pkg/appctx"
)

// fakeHost 記錄調用順序的宿主
type fakeHost struct {
	mu    sync.Mutex
	calls []string

	components map[string]bool
	info       *supervisor.Info
	infoErr    error
	// infoGate 非 nil 時 FetchSupervisorInfo 阻塞直到關閉
	infoGate chan struct{}

	setOptionErr error
	reloadErr    error
	refreshErr   error
	serviceErr   error

	lastOptions supervisor.Options
	lastFlowID  string
	lastService string
	lastData    map[string]any
}

func newFakeHost() *fakeHost {
	return &fakeHost{components: map[string]bool{"hassio": true}}
}

func (f *fakeHost) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeHost) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeHost) IsComponentLoaded(name string) bool {
	return f.components[name]
}

func (f *fakeHost) FetchSupervisorInfo(ctx context.Context) (*supervisor.Info, error) {
	f.record("fetch_info")
	if f.infoGate != nil {
		<-f.infoGate
	}
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeHost) SetSupervisorOption(ctx context.Context, opts supervisor.Options) error {
	f.record("set_option:" + opts.Channel.String())
	f.mu.Lock()
	f.lastOptions = opts
	f.lastFlowID = appctx.FlowID(ctx)
	f.mu.Unlock()
	return f.setOptionErr
}

func (f *fakeHost) ReloadSupervisor(ctx context.Context) error {
	f.record("reload")
	return f.reloadErr
}

func (f *fakeHost) RefreshSupervisorUpdates(ctx context.Context) error {
	f.record("refresh_updates")
	return f.refreshErr
}

func (f *fakeHost) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	f.record("call_service:" + domain + "." + service)
	f.mu.Lock()
	f.lastService = domain + "." + service
	f.lastData = data
	f.mu.Unlock()
	return f.serviceErr
}
