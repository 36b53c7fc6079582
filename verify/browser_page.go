package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/fixture"
	"go.uber.org/zap"
)

// BrowserConfig selects the Chrome instance a BrowserPage runs in.
type BrowserConfig struct {
	Headless bool
	// ControlURL attaches to an already running browser's DevTools endpoint;
	// when empty a browser is launched (and killed on Close).
	ControlURL string
	// Bin overrides the browser binary rod would otherwise download or find.
	Bin string
}

// BrowserPage runs the role menu, including its inline script, in a real
// browser through the DevTools protocol. The markup is served from a loopback
// listener so the page gets a regular http origin.
type BrowserPage struct {
	menuID   string
	srv      *http.Server
	launched *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	logger   *zap.Logger
}

// OpenBrowserPage serves markup, opens it in a browser and waits for it to
// load. The caller must Close the page.
func OpenBrowserPage(ctx context.Context, markup, menuID string, cfg BrowserConfig, logger *zap.Logger) (*BrowserPage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for fixture server: %w", err)
	}

	bp := &BrowserPage{
		menuID: menuID,
		logger: logger,
		srv: &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			io.WriteString(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"></head><body>\n"+markup+"\n</body></html>")
		})},
	}

	go func() {
		if err := bp.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Fixture server stopped", zap.Error(err))
		}
	}()

	if err := bp.open(ctx, cfg, "http://"+ln.Addr().String()+"/"); err != nil {
		bp.Close()
		return nil, err
	}
	return bp, nil
}

// OpenFixtureBrowserPage is OpenBrowserPage over the embedded role menu.
func OpenFixtureBrowserPage(ctx context.Context, cfg BrowserConfig, logger *zap.Logger) (*BrowserPage, error) {
	return OpenBrowserPage(ctx, fixture.RoleMenu, fixture.MenuID, cfg, logger)
}

func (p *BrowserPage) open(ctx context.Context, cfg BrowserConfig, url string) error {
	controlURL := cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Context(ctx).Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		p.launched = l
		controlURL = u
	}

	p.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := p.browser.Connect(); err != nil {
		p.browser = nil
		return fmt.Errorf("connect to browser: %w", err)
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("open fixture page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("load fixture page: %w", err)
	}
	p.page = page

	p.logger.Debug("Fixture page loaded", zap.String("url", url), zap.String("control_url", controlURL))
	return nil
}

// Close shuts the page, the browser (if launched here) and the fixture server.
func (p *BrowserPage) Close() error {
	var errs []error

	if p.page != nil {
		errs = append(errs, p.page.Close())
	}
	if p.browser != nil && p.launched != nil {
		errs = append(errs, p.browser.Close())
	}
	if p.launched != nil {
		p.launched.Kill()
		p.launched.Cleanup()
	}
	errs = append(errs, p.srv.Close())

	return errors.Join(errs...)
}

func (p *BrowserPage) elementRoles(ctx context.Context, selector string) ([]planner.Role, error) {
	els, err := p.page.Context(ctx).Elements("#" + p.menuID + " " + selector)
	if err != nil {
		return nil, err
	}

	roles := make([]planner.Role, 0, len(els))
	for _, el := range els {
		val, err := el.Attribute("data-role")
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, fmt.Errorf("button without data-role: %w", planner.ErrUnknownRole)
		}
		r, err := planner.ParseRole(*val)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

func (p *BrowserPage) Roles(ctx context.Context) ([]planner.Role, error) {
	return p.elementRoles(ctx, "."+fixture.ButtonClass)
}

func (p *BrowserPage) Click(ctx context.Context, r planner.Role) error {
	sel := fmt.Sprintf(`#%s .%s[data-role="%s"]`, p.menuID, fixture.ButtonClass, r)

	// Elements does not wait for a match, so a missing button fails at once
	// instead of at the context deadline.
	els, err := p.page.Context(ctx).Elements(sel)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return fmt.Errorf("no button for role %s: %w", r, planner.ErrUnknownRole)
	}
	return els[0].Click(proto.InputMouseButtonLeft, 1)
}

func (p *BrowserPage) ActiveButtons(ctx context.Context) ([]planner.Role, error) {
	return p.elementRoles(ctx, "."+fixture.ButtonClass+"."+fixture.ActiveClass)
}

func (p *BrowserPage) ActiveRole(ctx context.Context) (planner.Role, error) {
	obj, err := p.page.Context(ctx).Eval(`() => window.` + fixture.StateVariable)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", fixture.StateVariable, err)
	}
	return planner.ParseRole(obj.Value.Str())
}
