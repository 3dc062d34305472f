package scenario

import (
	"fmt"
	"os"

	"escrow-core/internal/campaign"

	"gopkg.in/yaml.v3"
)

// 支持的步骤类型
const (
	ActionSetTime = "set_time"
	ActionDeploy  = "deploy"
	ActionFund    = "fund"
	ActionClaim   = "claim"
	ActionCheck   = "check"
)

const defaultContract = "crowdfunding"

// Scenario 一个场景文件
type Scenario struct {
	Name string `yaml:"name"`
	// Accounts 别名 -> 地址
	Accounts map[string]string `yaml:"accounts"`
	// Balances 初始外部余额 (别名或地址 -> 金额)
	Balances map[string]string `yaml:"balances"`
	Steps    []Step            `yaml:"steps"`
}

// Step 场景中的一步
type Step struct {
	Action      string      `yaml:"action"`
	Contract    string      `yaml:"contract,omitempty"`
	Caller      string      `yaml:"caller,omitempty"`
	Time        uint64      `yaml:"time,omitempty"`
	Amount      string      `yaml:"amount,omitempty"`
	Params      *ParamsSpec `yaml:"params,omitempty"`
	ExpectError string      `yaml:"expect_error,omitempty"`
	Expect      *Expect     `yaml:"expect,omitempty"`
}

// ParamsSpec deploy 参数，金额用字符串表示以支持任意精度
type ParamsSpec struct {
	Target          string `yaml:"target"`
	Deadline        uint64 `yaml:"deadline"`
	MinContribution string `yaml:"min_contribution"`
	MaxPerUser      string `yaml:"max_per_user"`
	MaxCap          string `yaml:"max_cap"`
}

// Expect 对世界状态的断言
type Expect struct {
	Status      string            `yaml:"status,omitempty"`
	HeldBalance string            `yaml:"held_balance,omitempty"`
	Transferred string            `yaml:"transferred,omitempty"`
	Deposits    map[string]string `yaml:"deposits,omitempty"`
	Balances    map[string]string `yaml:"balances,omitempty"`
}

// Load 读取场景文件
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取场景文件失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 场景
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("解析场景失败: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("场景 %q 没有任何步骤", sc.Name)
	}
	return &sc, nil
}

// Marshal 序列化场景 (用于生成模板)
func Marshal(sc *Scenario) ([]byte, error) {
	return yaml.Marshal(sc)
}

func (p *ParamsSpec) toParams() (campaign.Params, error) {
	var out campaign.Params
	var err error
	if out.Target, err = campaign.ParseAmount(p.Target); err != nil {
		return out, err
	}
	if out.MinContribution, err = campaign.ParseAmount(p.MinContribution); err != nil {
		return out, err
	}
	if out.MaxPerUser, err = campaign.ParseAmount(p.MaxPerUser); err != nil {
		return out, err
	}
	if out.MaxCap, err = campaign.ParseAmount(p.MaxCap); err != nil {
		return out, err
	}
	out.Deadline = p.Deadline
	return out, nil
}

// Template 一个可以直接运行的示例场景
func Template() *Scenario {
	return &Scenario{
		Name: "successful campaign",
		Accounts: map[string]string{
			"owner": "0x00000000000000000000000000000000000000aa",
			"donor": "0x00000000000000000000000000000000000000d1",
		},
		Balances: map[string]string{"donor": "5000"},
		Steps: []Step{
			{Action: ActionSetTime, Time: 100},
			{Action: ActionDeploy, Caller: "owner", Params: &ParamsSpec{
				Target: "1000", Deadline: 600, MinContribution: "10", MaxPerUser: "1000", MaxCap: "1000",
			}},
			{Action: ActionFund, Caller: "donor", Amount: "5", ExpectError: "BelowMinimumContribution"},
			{Action: ActionFund, Caller: "donor", Amount: "1000"},
			{Action: ActionSetTime, Time: 601},
			{Action: ActionCheck, Expect: &Expect{Status: "Successful", HeldBalance: "1000"}},
			{Action: ActionClaim, Caller: "donor", ExpectError: "Unauthorized"},
			{Action: ActionClaim, Caller: "owner", Expect: &Expect{Transferred: "1000"}},
			{Action: ActionCheck, Expect: &Expect{HeldBalance: "0", Balances: map[string]string{"owner": "1000", "donor": "4000"}}},
		},
	}
}
