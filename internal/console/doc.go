// Package console serves the monitoring dashboard.
//
// The dashboard is a single page with the monitor form (#monitorForm), the
// stop button (#stopButton) and the interaction list (#interactions). Form
// posts are relayed to the API as JSON by SubmitMonitor and Stop; failures
// are logged and never shown to the user. The interaction list is filled in
// only when the page is requested at /interactions.
package console
