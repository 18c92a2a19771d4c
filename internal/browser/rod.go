package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/selector"
)

// RodDriver implements Driver with a headless Chromium via Rod.
type RodDriver struct {
	browser     *rod.Browser
	cfg         *config.Config
	findTimeout time.Duration
	logger      *slog.Logger
}

// NewRodDriver launches a browser and connects to it.
func NewRodDriver(cfg *config.Config, logger *slog.Logger) (*RodDriver, error) {
	d := &RodDriver{
		cfg:         cfg,
		findTimeout: cfg.Scraper.FindTimeout,
		logger:      logger.With("component", "browser_driver"),
	}

	launchURL, err := d.launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	br := rod.New().ControlURL(launchURL)
	if err := br.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	d.browser = br

	d.logger.Info("browser ready",
		"headless", cfg.Browser.Headless,
		"stealth", cfg.Browser.Stealth,
	)
	return d, nil
}

func (d *RodDriver) launch() (string, error) {
	l := launcher.New().
		Headless(d.cfg.Browser.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-features", "IsolateOrigins,site-per-process").
		Set("disable-blink-features", "AutomationControlled")

	if d.cfg.Browser.BinPath != "" {
		l = l.Bin(d.cfg.Browser.BinPath)
	}
	return l.Launch()
}

// Open creates a new page session. With stealth enabled the page is
// created with the anti-detection patches applied before any
// navigation.
func (d *RodDriver) Open(ctx context.Context) (Session, error) {
	var (
		page *rod.Page
		err  error
	)
	if d.cfg.Browser.Stealth {
		page, err = stealth.Page(d.browser)
	} else {
		page, err = d.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	page = page.Context(ctx)

	if ua := d.cfg.Scraper.UserAgent; ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			d.logger.Warn("failed to set user agent", "error", err)
		}
	}

	return &rodSession{
		page:        page,
		pageTimeout: d.cfg.Scraper.PageTimeout,
		findTimeout: d.findTimeout,
		logger:      d.logger,
	}, nil
}

// Close shuts down the browser process.
func (d *RodDriver) Close() error {
	if d.browser != nil {
		return d.browser.Close()
	}
	return nil
}

type rodSession struct {
	page        *rod.Page
	pageTimeout time.Duration
	findTimeout time.Duration
	logger      *slog.Logger
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx).Timeout(s.pageTimeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitStable(300 * time.Millisecond); err != nil {
		s.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}
	return nil
}

func (s *rodSession) Find(loc selector.Locator) (Element, error) {
	el, err := s.find(loc)
	if err != nil {
		return nil, err
	}
	return &rodElement{el: el, findTimeout: s.findTimeout}, nil
}

func (s *rodSession) find(loc selector.Locator) (*rod.Element, error) {
	page := s.page.Timeout(s.findTimeout)
	switch loc.Kind {
	case selector.KindCSS:
		return page.Element(loc.Expr)
	case selector.KindXPath:
		return page.ElementX(loc.Expr)
	default:
		return nil, fmt.Errorf("unknown locator kind %q", loc.Kind)
	}
}

func (s *rodSession) FindAll(loc selector.Locator) ([]Element, error) {
	page := s.page.Timeout(s.findTimeout)
	var (
		els rod.Elements
		err error
	)
	switch loc.Kind {
	case selector.KindCSS:
		els, err = page.Elements(loc.Expr)
	case selector.KindXPath:
		els, err = page.ElementsX(loc.Expr)
	default:
		return nil, fmt.Errorf("unknown locator kind %q", loc.Kind)
	}
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el, findTimeout: s.findTimeout})
	}
	return out, nil
}

func (s *rodSession) Lookup(loc selector.Locator) (string, error) {
	el, err := s.Find(loc)
	if err != nil {
		return "", selector.ErrNoMatch
	}
	return elementValue(el, loc)
}

func (s *rodSession) LookupAll(loc selector.Locator) ([]selector.Scope, error) {
	els, err := s.FindAll(loc)
	if err != nil {
		return nil, err
	}
	scopes := make([]selector.Scope, 0, len(els))
	for _, el := range els {
		scopes = append(scopes, el)
	}
	return scopes, nil
}

func (s *rodSession) Eval(js string) error {
	_, err := s.page.Eval(js)
	return err
}

func (s *rodSession) HTML() (string, error) {
	return s.page.HTML()
}

func (s *rodSession) Close() error {
	return s.page.Close()
}

type rodElement struct {
	el          *rod.Element
	findTimeout time.Duration
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attribute(name string) (string, error) {
	val, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", selector.ErrNoMatch
	}
	return *val, nil
}

func (e *rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Visible() bool {
	visible, err := e.el.Visible()
	return err == nil && visible
}

func (e *rodElement) Lookup(loc selector.Locator) (string, error) {
	sub, err := e.findSub(loc)
	if err != nil {
		return "", selector.ErrNoMatch
	}
	return elementValue(&rodElement{el: sub, findTimeout: e.findTimeout}, loc)
}

func (e *rodElement) LookupAll(loc selector.Locator) ([]selector.Scope, error) {
	el := e.el.Timeout(e.findTimeout)
	var (
		subs rod.Elements
		err  error
	)
	switch loc.Kind {
	case selector.KindCSS:
		subs, err = el.Elements(loc.Expr)
	case selector.KindXPath:
		subs, err = el.ElementsX(loc.Expr)
	default:
		return nil, fmt.Errorf("unknown locator kind %q", loc.Kind)
	}
	if err != nil {
		return nil, err
	}
	scopes := make([]selector.Scope, 0, len(subs))
	for _, sub := range subs {
		scopes = append(scopes, &rodElement{el: sub, findTimeout: e.findTimeout})
	}
	return scopes, nil
}

func (e *rodElement) findSub(loc selector.Locator) (*rod.Element, error) {
	el := e.el.Timeout(e.findTimeout)
	switch loc.Kind {
	case selector.KindCSS:
		return el.Element(loc.Expr)
	case selector.KindXPath:
		return el.ElementX(loc.Expr)
	default:
		return nil, fmt.Errorf("unknown locator kind %q", loc.Kind)
	}
}

func elementValue(el Element, loc selector.Locator) (string, error) {
	if loc.Attr != "" {
		return el.Attribute(loc.Attr)
	}
	return el.Text()
}
