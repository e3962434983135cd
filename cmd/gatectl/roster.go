package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "学生花名册",
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "import <file.xlsx>",
		Short:   "从 Excel 导入或更新花名册",
		Example: `  gatectl roster import students.xlsx`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("打开文件失败: %w", err)
			}
			defer f.Close()

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			rows, err := a.svc.Student.ParseImportFile(f)
			if err != nil {
				return err
			}
			result, err := a.svc.Student.ImportStudents(cmd.Context(), rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "共 %d 行，成功 %d，失败 %d\n", result.Total, result.Success, result.Failed)
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  第 %d 行: %s\n", e.Row, e.Reason)
			}
			return nil
		},
	})
	return cmd
}
