package scenario

import (
	"errors"
	"fmt"

	"escrow-core/internal/campaign"
	"escrow-core/internal/sim"

	"github.com/shopspring/decimal"
)

// ErrMismatch 步骤结果与预期不符
var ErrMismatch = errors.New("scenario expectation mismatch")

// StepResult 单步执行结果
type StepResult struct {
	Index      int
	Action     string
	Err        error
	Settlement *campaign.Settlement
}

// Report 场景执行报告
type Report struct {
	Name  string
	Steps []StepResult
}

// Runner 在一个全新的 sim.World 上执行场景
type Runner struct {
	sc      *Scenario
	world   *sim.World
	aliases map[string]campaign.Identity
}

// Run 执行场景，遇到第一个不符合预期的步骤即返回错误
func Run(sc *Scenario) (*Report, error) {
	r := &Runner{sc: sc, world: sim.NewWorld(), aliases: make(map[string]campaign.Identity)}
	for alias, addr := range sc.Accounts {
		id, err := campaign.ParseIdentity(addr)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", alias, err)
		}
		r.aliases[alias] = id
	}
	for who, amt := range sc.Balances {
		id, err := r.identity(who)
		if err != nil {
			return nil, err
		}
		v, err := campaign.ParseAmount(amt)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", who, err)
		}
		r.world.SetBalance(id, v)
	}

	report := &Report{Name: sc.Name}
	for i, step := range sc.Steps {
		res := StepResult{Index: i, Action: step.Action}
		if err := r.exec(step, &res); err != nil {
			report.Steps = append(report.Steps, res)
			return report, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
		report.Steps = append(report.Steps, res)
	}
	return report, nil
}

func (r *Runner) exec(step Step, res *StepResult) error {
	contract := step.Contract
	if contract == "" {
		contract = defaultContract
	}

	var callErr error
	switch step.Action {
	case ActionSetTime:
		r.world.SetTime(step.Time)
	case ActionDeploy:
		if step.Params == nil {
			return fmt.Errorf("deploy requires params")
		}
		owner, err := r.identity(step.Caller)
		if err != nil {
			return err
		}
		p, err := step.Params.toParams()
		if err != nil {
			callErr = err
			break
		}
		callErr = r.world.Deploy(contract, owner, p)
	case ActionFund:
		caller, err := r.identity(step.Caller)
		if err != nil {
			return err
		}
		amount, err := campaign.ParseAmount(step.Amount)
		if err != nil {
			callErr = err
			break
		}
		callErr = r.world.Fund(contract, caller, amount)
	case ActionClaim:
		caller, err := r.identity(step.Caller)
		if err != nil {
			return err
		}
		s, err := r.world.Claim(contract, caller)
		callErr = err
		if err == nil {
			res.Settlement = &s
		}
	case ActionCheck:
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	res.Err = callErr

	if err := checkError(step.ExpectError, callErr); err != nil {
		return err
	}
	if step.Expect != nil {
		return r.check(contract, step.Expect, res)
	}
	return nil
}

func checkError(expected string, got error) error {
	switch {
	case expected == "" && got != nil:
		return fmt.Errorf("%w: unexpected error: %v", ErrMismatch, got)
	case expected != "" && got == nil:
		return fmt.Errorf("%w: expected error %s, call succeeded", ErrMismatch, expected)
	case expected != "" && campaign.ErrorName(got) != expected:
		return fmt.Errorf("%w: expected error %s, got %v", ErrMismatch, expected, got)
	}
	return nil
}

func (r *Runner) check(contract string, exp *Expect, res *StepResult) error {
	if exp.Status != "" {
		want, err := campaign.ParseStatus(exp.Status)
		if err != nil {
			return err
		}
		got, err := r.world.Status(contract)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("%w: status = %s, want %s", ErrMismatch, got, want)
		}
	}
	if exp.HeldBalance != "" {
		got, err := r.world.HeldBalance(contract)
		if err != nil {
			return err
		}
		if err := equalAmount("held balance", got, exp.HeldBalance); err != nil {
			return err
		}
	}
	if exp.Transferred != "" {
		got := decimal.Zero
		if res.Settlement != nil {
			got = res.Settlement.Amount
		}
		if err := equalAmount("transferred", got, exp.Transferred); err != nil {
			return err
		}
	}
	for who, amt := range exp.Deposits {
		id, err := r.identity(who)
		if err != nil {
			return err
		}
		got, err := r.world.Deposit(contract, id)
		if err != nil {
			return err
		}
		if err := equalAmount("deposit of "+who, got, amt); err != nil {
			return err
		}
	}
	for who, amt := range exp.Balances {
		id, err := r.identity(who)
		if err != nil {
			return err
		}
		if err := equalAmount("balance of "+who, r.world.Balance(id), amt); err != nil {
			return err
		}
	}
	return nil
}

func equalAmount(what string, got decimal.Decimal, want string) error {
	w, err := campaign.ParseAmount(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("%w: %s = %s, want %s", ErrMismatch, what, got, w)
	}
	return nil
}

// identity 别名优先，否则按地址解析
func (r *Runner) identity(v string) (campaign.Identity, error) {
	if id, ok := r.aliases[v]; ok {
		return id, nil
	}
	return campaign.ParseIdentity(v)
}
