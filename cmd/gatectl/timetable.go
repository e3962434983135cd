package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"campus-gate/internal/service"
)

func newTimetableCmd() *cobra.Command {
	var (
		year string
		file string
		url  string
	)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "从 ICS 日历导入某年级课表（按天覆盖）",
		Example: `  gatectl timetable import --year 2 --file timetable.ics
  gatectl timetable import --year 3 --url webcal://example.edu/year3.ics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == "" {
				return errors.New("必须指定 --year")
			}
			if (file == "") == (url == "") {
				return errors.New("--file 与 --url 必须且只能指定一个")
			}

			var reader io.ReadCloser
			var err error
			if file != "" {
				reader, err = os.Open(file)
			} else {
				reader, err = service.FetchICSContent(url)
			}
			if err != nil {
				return err
			}
			defer reader.Close()

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			loc, err := time.LoadLocation(a.cfg.Database.Timezone)
			if err != nil {
				return fmt.Errorf("时区配置无效: %w", err)
			}

			result, err := a.svc.Timetable.ImportICS(cmd.Context(), reader, year, loc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "年级 %s：导入 %d 天，共 %d 节课\n", result.Year, result.Days, result.Periods)
			return nil
		},
	}
	importCmd.Flags().StringVar(&year, "year", "", "年级")
	importCmd.Flags().StringVar(&file, "file", "", "本地 ICS 文件")
	importCmd.Flags().StringVar(&url, "url", "", "ICS 订阅地址（支持 webcal://）")

	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "课表",
	}
	cmd.AddCommand(importCmd)
	return cmd
}
