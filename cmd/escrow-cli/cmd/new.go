package cmd

import (
	"fmt"
	"os"

	"escrow-core/internal/scenario"

	"github.com/spf13/cobra"
)

var force bool

// newCmd 生成场景模板
var newCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "生成一个场景模板 (成功募集并提取)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		data, err := scenario.Marshal(scenario.Template())
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "场景模板已写入 %s\n", path)
		return nil
	},
}

func init() {
	newCmd.Flags().BoolVarP(&force, "force", "f", false, "覆盖已存在的文件")
	rootCmd.AddCommand(newCmd)
}
