// Package doctor runs environment checks for the shell panel: configuration,
// shell availability and the persisted command history.
package doctor

import "context"

// Status is the outcome of a single check item.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

var statusNames = [...]string{"pass", "warn", "fail"}

func (s Status) String() string {
	if int(s) < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText encodes the status by name for JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckItem is one line of a check's result.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

// Result groups the items produced by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

func (r *Result) add(status Status, label, detail string) *CheckItem {
	r.Items = append(r.Items, CheckItem{Label: label, Status: status, Detail: detail})
	return &r.Items[len(r.Items)-1]
}

func (r *Result) pass(label, detail string) { r.add(StatusPass, label, detail) }
func (r *Result) warn(label, detail string) { r.add(StatusWarn, label, detail) }
func (r *Result) fail(label, detail string) { r.add(StatusFail, label, detail) }

// Check is a single diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Report is the aggregate of every check run by Run.
type Report struct {
	Results []Result `json:"checks"`
	Passed  int      `json:"passed"`
	Warned  int      `json:"warned"`
	Failed  int      `json:"failed"`
	// Fixable counts warnings and failures that --fix can repair.
	Fixable int `json:"fixable"`
}

// Healthy reports whether no item failed.
func (r Report) Healthy() bool {
	return r.Failed == 0
}

// Run executes checks in order and tallies their items.
func Run(ctx context.Context, checks ...Check) Report {
	report := Report{Results: make([]Result, 0, len(checks))}
	for _, check := range checks {
		result := check.Run(ctx)
		for _, item := range result.Items {
			switch item.Status {
			case StatusPass:
				report.Passed++
				continue
			case StatusWarn:
				report.Warned++
			case StatusFail:
				report.Failed++
			}
			if item.Fixable {
				report.Fixable++
			}
		}
		report.Results = append(report.Results, result)
	}
	return report
}
