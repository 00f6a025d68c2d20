package lifecycle

import (
	"errors"
	"fmt"
)

// DocsURL is the documentation linked from every lifecycle error.
const DocsURL = "https://nightwatchjs.org/guide/component-testing/testing-react-components.html"

// PluginName is the Vite plugin that serves the diagnostic endpoint.
const PluginName = "vite-plugin-nightwatch-fixes"

// Kind classifies a lifecycle failure.
type Kind string

const (
	// KindMissingCapability means the external dev server answered 404 on the diagnostic endpoint.
	KindMissingCapability Kind = "missing_capability"
	// KindServerUnreachable means the external dev server could not be probed.
	KindServerUnreachable Kind = "server_unreachable"
)

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrMissingCapability = &Error{Kind: KindMissingCapability}
	ErrServerUnreachable = &Error{Kind: KindServerUnreachable}
)

// Error is a user-actionable lifecycle failure with remediation text.
type Error struct {
	Kind    Kind
	Message string
	// Help lines are printed below the message.
	Help []string
	// Link points at the relevant documentation.
	Link string

	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsMissingCapability reports whether err is a KindMissingCapability error.
func IsMissingCapability(err error) bool {
	return errors.Is(err, ErrMissingCapability)
}

// IsServerUnreachable reports whether err is a KindServerUnreachable error.
func IsServerUnreachable(err error) bool {
	return errors.Is(err, ErrServerUnreachable)
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

const pluginConfigExample = `

    import nightwatchPlugin from 'vite-plugin-nightwatch-fixes'

    export default {
      plugins: [
        // ... other plugins
        nightwatchPlugin({
          componentType: '%s'
        })
      ]
    };`

const managedConfigExample = `

    vite_dev_server:
      start_vite: true
      port: 5173`

func missingCapabilityError(url, componentType string) *Error {
	return &Error{
		Kind:    KindMissingCapability,
		Message: fmt.Sprintf("missing %s: %s returned 404", PluginName, url),
		Help: []string{
			fmt.Sprintf("Please ensure that %q is loaded in your Vite config file:", PluginName) +
				fmt.Sprintf(pluginConfigExample, componentType),
			"Run 'vitehook init' to generate a vite.config.js that loads it.",
		},
		Link: DocsURL,
	}
}

func serverUnreachableError(cause error) *Error {
	return &Error{
		Kind:    KindServerUnreachable,
		Message: "vite dev server is not running",
		Help: []string{
			"Start the dev server yourself, or let vitehook start it by adding this to vitehook.yaml:" + managedConfigExample,
		},
		Link: DocsURL,
		err:  cause,
	}
}
