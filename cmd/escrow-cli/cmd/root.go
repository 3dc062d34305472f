package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "escrow-cli",
	Short: "众筹托管合约的场景测试工具",
	Long: `在内存模拟环境中执行 YAML 场景文件:
部署活动、推进区块时间、入金、结算，并校验状态、余额和错误。`,
	SilenceUsage: true,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
