package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/varalys/gitsecrets/internal/types"
)

// ID names one secret type in the registry.
type ID string

const (
	AWSAccessKey      ID = "aws_access_key"
	AWSSecretKey      ID = "aws_secret_key"
	GitHubToken       ID = "github_token"
	GitHubOAuth       ID = "github_oauth"
	GitLabToken       ID = "gitlab_token"
	GoogleAPIKey      ID = "google_api_key"
	StripeKey         ID = "stripe_key"
	StripePublishable ID = "stripe_publishable"
	StripeTestKey     ID = "stripe_test_key"
	SlackToken        ID = "slack_token"
	SlackWebhook      ID = "slack_webhook"
	SendGridAPIKey    ID = "sendgrid_api_key"
	NPMToken          ID = "npm_token"
	PrivateKey        ID = "private_key"
	PasswordInURL     ID = "password_in_url"
	JWTToken          ID = "jwt_token"
	GenericSecret     ID = "generic_secret"
)

// ErrUnknownType is returned when a caller names a secret type that is not
// in the registry.
var ErrUnknownType = errors.New("unknown secret type")

// Spec is one immutable registry entry. When Group is non-zero the captured
// group isolates the secret value inside the full match.
type Spec struct {
	ID          ID
	Pattern     *regexp.Regexp
	Group       int
	Severity    types.Severity
	Description string
}

// Registry is an ordered, read-only set of specs. It is safe for concurrent use.
type Registry struct {
	specs []Spec
	byID  map[ID]int
}

// Order matters: findings on a line are emitted in this order, and the
// low-specificity generic assignment stays last.
var defaultSpecs = []Spec{
	{ID: AWSAccessKey, Pattern: regexp.MustCompile(`AKIA[0-9A-Z]{16}`), Severity: types.SevCritical, Description: "AWS Access Key ID"},
	{ID: AWSSecretKey, Pattern: regexp.MustCompile(`(?i)(?:aws_secret_access_key|aws_secret_key|secretKey)["'\s:=]+([A-Za-z0-9/+=]{40})`), Group: 1, Severity: types.SevCritical, Description: "AWS Secret Access Key"},
	{ID: GitHubToken, Pattern: regexp.MustCompile(`ghp_[A-Za-z0-9_]{36}`), Severity: types.SevCritical, Description: "GitHub Personal Access Token"},
	{ID: GitHubOAuth, Pattern: regexp.MustCompile(`gho_[A-Za-z0-9_]{36}`), Severity: types.SevCritical, Description: "GitHub OAuth Token"},
	{ID: GitLabToken, Pattern: regexp.MustCompile(`glpat-[0-9A-Za-z_\-]{20}`), Severity: types.SevCritical, Description: "GitLab Personal Access Token"},
	{ID: GoogleAPIKey, Pattern: regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`), Severity: types.SevHigh, Description: "Google API Key"},
	{ID: StripeKey, Pattern: regexp.MustCompile(`sk_live_[0-9a-zA-Z]{24,}`), Severity: types.SevCritical, Description: "Stripe Secret Key"},
	{ID: StripePublishable, Pattern: regexp.MustCompile(`pk_live_[0-9a-zA-Z]{24,}`), Severity: types.SevMed, Description: "Stripe Publishable Key"},
	{ID: StripeTestKey, Pattern: regexp.MustCompile(`sk_test_[0-9a-zA-Z]{24,}`), Severity: types.SevLow, Description: "Stripe Test Secret Key"},
	{ID: SlackToken, Pattern: regexp.MustCompile(`xox[baprs]-[0-9A-Za-z\-]{10,}`), Severity: types.SevHigh, Description: "Slack Token"},
	{ID: SlackWebhook, Pattern: regexp.MustCompile(`https://hooks\.slack\.com/services/T[A-Za-z0-9_]+/B[A-Za-z0-9_]+/[A-Za-z0-9_]+`), Severity: types.SevHigh, Description: "Slack Incoming Webhook URL"},
	{ID: SendGridAPIKey, Pattern: regexp.MustCompile(`SG\.[A-Za-z0-9_\-]{22}\.[A-Za-z0-9_\-]{43}`), Severity: types.SevHigh, Description: "SendGrid API Key"},
	{ID: NPMToken, Pattern: regexp.MustCompile(`npm_[A-Za-z0-9]{36}`), Severity: types.SevHigh, Description: "npm Access Token"},
	{ID: PrivateKey, Pattern: regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`), Severity: types.SevCritical, Description: "Private Key"},
	{ID: PasswordInURL, Pattern: regexp.MustCompile(`[a-zA-Z]{3,10}://[^/\s:@]{3,20}:([^/\s:@]{3,20})@.{1,100}`), Group: 1, Severity: types.SevHigh, Description: "Password in URL"},
	{ID: JWTToken, Pattern: regexp.MustCompile(`eyJ[A-Za-z0-9_=\-]+\.eyJ[A-Za-z0-9_=\-]+\.?[A-Za-z0-9_.+/=\-]*`), Severity: types.SevMed, Description: "JWT Token"},
	{ID: GenericSecret, Pattern: regexp.MustCompile(`(?i)(?:password|secret|api_key|apikey|token)\s*[=:]\s*["']([^"']{8,})["']`), Group: 1, Severity: types.SevMed, Description: "Generic Secret Assignment"},
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the built-in registry. It is constructed once per process.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New(defaultSpecs...)
		if err != nil {
			panic(err)
		}
		defaultReg = r
	})
	return defaultReg
}

// New builds a registry from specs, rejecting duplicate IDs and capture
// groups the pattern does not define.
func New(specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make([]Spec, 0, len(specs)), byID: make(map[ID]int, len(specs))}
	for _, s := range specs {
		if s.Pattern == nil {
			return nil, fmt.Errorf("pattern %q: nil regexp", s.ID)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("pattern %q: duplicate id", s.ID)
		}
		if s.Group < 0 || s.Group > s.Pattern.NumSubexp() {
			return nil, fmt.Errorf("pattern %q: group %d out of range", s.ID, s.Group)
		}
		if s.Severity.Rank() == 0 {
			return nil, fmt.Errorf("pattern %q: invalid severity %q", s.ID, s.Severity)
		}
		r.byID[s.ID] = len(r.specs)
		r.specs = append(r.specs, s)
	}
	return r, nil
}

// Specs returns a copy of the entries in precedence order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

func (r *Registry) Len() int { return len(r.specs) }

// IDs lists the secret type identifiers in precedence order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, string(s.ID))
	}
	return out
}

// Lookup returns the pattern registered under id.
func (r *Registry) Lookup(id ID) (Spec, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Spec{}, false
	}
	return r.specs[i], true
}

// Filter returns a registry restricted to enable (all when empty) minus
// disable. Order is preserved. Unknown ids wrap ErrUnknownType.
func (r *Registry) Filter(enable, disable []string) (*Registry, error) {
	if len(enable) == 0 && len(disable) == 0 {
		return r, nil
	}
	allowed := map[ID]bool{}
	for _, id := range enable {
		if _, ok := r.byID[ID(id)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, id)
		}
		allowed[ID(id)] = true
	}
	blocked := map[ID]bool{}
	for _, id := range disable {
		if _, ok := r.byID[ID(id)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, id)
		}
		blocked[ID(id)] = true
	}
	var kept []Spec
	for _, s := range r.specs {
		if len(allowed) > 0 && !allowed[s.ID] {
			continue
		}
		if blocked[s.ID] {
			continue
		}
		kept = append(kept, s)
	}
	return New(kept...)
}

// SplitIDs parses a comma-separated id list, dropping blanks.
func SplitIDs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
