// Package planner works out which organizational units the lab needs and
// creates the ones that are missing.
package planner

import (
	"log/slog" // slog reports per-OU progress and failures

	"github.com/r3dlin3/new-labusers/internal/generator"
)

// SubOUs are created under the top-level OU, in this order.
var SubOUs = []string{"Users", "Computers", "Groups", "Resources", "Shared"}

// UsersOU is the sub-OU accounts are created in.
const UsersOU = "Users"

// OUStep is one entry of a plan: an OU name, its parent, and its full DN.
type OUStep struct {
	Name     string
	ParentDN string
	DN       string
}

// OUPlan is the ordered list of OUs to ensure. Top is always first.
type OUPlan struct {
	Top      OUStep
	Children []OUStep
}

// BuildPlan computes the plan for top under domainDN.
func BuildPlan(top, domainDN string) OUPlan {
	topDN := generator.OUDN(top, domainDN)
	plan := OUPlan{
		Top: OUStep{Name: top, ParentDN: domainDN, DN: topDN},
	}
	for _, name := range SubOUs {
		plan.Children = append(plan.Children, OUStep{
			Name:     name,
			ParentDN: topDN,
			DN:       generator.OUDN(name, topDN),
		})
	}
	return plan
}

// UsersDN is where accounts go.
func (p OUPlan) UsersDN() string {
	return generator.OUDN(UsersOU, p.Top.DN)
}

// Directory is the part of the directory service the planner touches.
type Directory interface {
	OUExists(dn string) (bool, error)
	CreateOU(name, parentDN string) error
}

// Result counts what Ensure did.
type Result struct {
	Created int
	Existed int
	Failed  int
	Skipped int
}

// Planner ensures an OUPlan against a Directory.
type Planner struct {
	dir    Directory
	logger *slog.Logger
}

// NewPlanner is an initializer function for Planner.
func NewPlanner(dir Directory, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{dir: dir, logger: logger}
}

// Ensure creates whatever part of plan is missing. Existing OUs are
// logged and left alone, and a failed create is logged and skipped; Ensure
// never returns an error for either.
//
// The top-level OU is handled first. If it still cannot be found
// afterwards, the sub-OUs are skipped, since none of them could be created.
func (p *Planner) Ensure(plan OUPlan) Result {
	var res Result

	// Create the top-level OU first; every other OU lives under it.
	p.ensureStep(plan.Top, &res)

	// Check again, because the create above may have failed.
	present, err := p.dir.OUExists(plan.Top.DN)
	if err != nil {
		p.logger.Warn("could not confirm top-level OU", "dn", plan.Top.DN, "error", err.Error())
	}
	if err == nil && !present {
		p.logger.Warn("top-level OU missing, skipping sub-OUs", "dn", plan.Top.DN)
		res.Skipped = len(plan.Children)
		return res
	}

	// Ensure each sub-OU on its own; one failure does not stop the rest.
	for _, step := range plan.Children {
		p.ensureStep(step, &res)
	}
	return res
}

func (p *Planner) ensureStep(step OUStep, res *Result) {
	exists, err := p.dir.OUExists(step.DN)
	if err != nil {
		// Unknown state; let the create call decide.
		p.logger.Warn("failed to check OU", "dn", step.DN, "error", err.Error())
	}
	if exists {
		p.logger.Info("OU already exists", "dn", step.DN)
		res.Existed++
		return
	}

	if err := p.dir.CreateOU(step.Name, step.ParentDN); err != nil {
		p.logger.Warn("failed to create OU", "dn", step.DN, "error", err.Error())
		res.Failed++
		return
	}
	p.logger.Info("created OU", "dn", step.DN)
	res.Created++
}
