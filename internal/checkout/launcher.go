package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DeviceClass decides how a payment link is handed over.
type DeviceClass int

const (
	Desktop DeviceClass = iota
	Mobile
)

func (d DeviceClass) String() string {
	if d == Mobile {
		return "mobile"
	}
	return "desktop"
}

var mobileUA = regexp.MustCompile(`(?i)Android|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// ClassifyUserAgent maps a User-Agent string to a device class.
func ClassifyUserAgent(ua string) DeviceClass {
	if mobileUA.MatchString(ua) {
		return Mobile
	}
	return Desktop
}

// UPIApp is a payment app reachable through its own URI scheme.
type UPIApp struct {
	ID     string
	Name   string
	Scheme string // replaces "upi://pay" in the generic link
}

// GenericScheme is the scheme every UPI app registers.
const GenericScheme = "upi://pay"

// Apps is the catalogue of known UPI apps, most popular first. The last
// entry is the generic scheme.
var Apps = []UPIApp{
	{ID: "gpay", Name: "Google Pay", Scheme: "gpay://upi/pay"},
	{ID: "phonepe", Name: "PhonePe", Scheme: "phonepe://pay"},
	{ID: "paytm", Name: "Paytm", Scheme: "paytmmp://pay"},
	{ID: "bhim", Name: "BHIM UPI", Scheme: "bhim://pay"},
	{ID: "amazonpay", Name: "Amazon Pay", Scheme: "amazonpay://pay"},
	{ID: "other", Name: "Other UPI App", Scheme: GenericScheme},
}

// AppLink rewrites a generic upi://pay link for app. Links that do not use
// the generic scheme are returned unchanged.
func AppLink(link string, app UPIApp) string {
	if !strings.HasPrefix(link, GenericScheme) {
		return link
	}
	return app.Scheme + strings.TrimPrefix(link, GenericScheme)
}

// Target says where a URI should be opened.
type Target int

const (
	// SameContext replaces the current page (mobile direct navigation).
	SameContext Target = iota
	// NewContext opens a new tab or window.
	NewContext
)

// ErrNotHandled is returned by an Opener when nothing claimed the URI.
var ErrNotHandled = errors.New("checkout: no handler for uri")

// Opener hands a URI to the platform. Open should block until the URI was
// claimed by an app, ctx is done, or it is known that no app will claim it.
type Opener interface {
	Open(ctx context.Context, uri string, target Target) error
}

// LaunchResult records how a link was handed over.
type LaunchResult struct {
	Device DeviceClass
	URI    string
	App    *UPIApp // nil when the generic link was used
}

// Launcher opens payment links according to the device class.
//
// On mobile, each app in Probe is tried in order, each attempt bounded by
// AttemptTimeout; the generic link is opened when none claims its scheme.
// With an empty Probe list the generic link is navigated to directly. On
// desktop the generic link is opened in a new context.
type Launcher struct {
	Opener         Opener
	Probe          []UPIApp
	AttemptTimeout time.Duration
}

// DefaultAttemptTimeout bounds one app probe.
const DefaultAttemptTimeout = 1500 * time.Millisecond

// Launch hands link to an app. Cancelling ctx stops probing immediately.
func (l *Launcher) Launch(ctx context.Context, device DeviceClass, link string) (LaunchResult, error) {
	if device == Desktop {
		if err := l.Opener.Open(ctx, link, NewContext); err != nil {
			return LaunchResult{}, fmt.Errorf("open payment link: %w", err)
		}
		return LaunchResult{Device: Desktop, URI: link}, nil
	}

	timeout := l.AttemptTimeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	for i := range l.Probe {
		app := l.Probe[i]
		if app.Scheme == GenericScheme {
			continue
		}
		uri := AppLink(link, app)
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := l.Opener.Open(attemptCtx, uri, SameContext)
		cancel()
		if err == nil {
			return LaunchResult{Device: Mobile, URI: uri, App: &app}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return LaunchResult{}, ctxErr
		}
	}

	if err := l.Opener.Open(ctx, link, SameContext); err != nil {
		return LaunchResult{}, fmt.Errorf("open payment link: %w", err)
	}
	return LaunchResult{Device: Mobile, URI: link}, nil
}
