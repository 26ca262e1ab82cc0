// avernactl — เครื่องมือ command line คุยกับ Averna API สำหรับงาน ops เล็กๆ
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/abdulhafiz0-0/averna/client"
	"github.com/abdulhafiz0-0/averna/moneyfmt"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "avernactl",
})

// อ่าน config จาก flag > env (AVERNA_*) > ไฟล์ config
func buildClient(cmd *cobra.Command) *client.Client {
	viper.SetEnvPrefix("AVERNA")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("base_url", cmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("session_file", cmd.Flags().Lookup("session-file"))

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logger.Warn("failed to read config file", "error", err)
		}
	}

	baseURL := viper.GetString("base_url")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	sessionFile := viper.GetString("session_file")
	if sessionFile == "" {
		home, _ := os.UserHomeDir()
		sessionFile = filepath.Join(home, ".avernactl-session.json")
	}

	return client.New(baseURL, client.WithStore(client.NewFileStore(sessionFile)))
}

var rootCmd = &cobra.Command{
	Use:   "avernactl",
	Short: "Averna tutoring-center admin CLI",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and persist the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := buildClient(cmd)

		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}

		s, err := c.Login(context.Background(), args[0], string(pw))
		if err != nil {
			return err
		}
		logger.Info("logged in", "username", s.Username, "role", s.Role)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the admin dashboard overview",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := buildClient(cmd)
		st, err := c.Stats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("students:        %d\n", st.TotalStudents)
		fmt.Printf("total income:    %s\n", moneyfmt.FormatUZS(st.TotalMoney))
		fmt.Printf("monthly income:  %s\n", moneyfmt.FormatUZS(st.MonthlyMoney))
		fmt.Printf("unpaid:          %s\n", moneyfmt.FormatUZS(st.Unpaid))
		fmt.Printf("monthly unpaid:  %s\n", moneyfmt.FormatUZS(st.MonthlyUnpaid))
		return nil
	},
}

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List active students with their balance",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := buildClient(cmd)
		students, err := c.Students(context.Background())
		if err != nil {
			return err
		}
		for _, s := range students {
			fmt.Printf("%4d  %-30s lessons=%-4d debt=%s\n",
				s.ID, s.Name+" "+s.Surname, s.NumLesson, moneyfmt.FormatUZS(s.TotalMoney))
		}
		return nil
	},
}

var projectCmd = &cobra.Command{
	Use:   "project <student-id>",
	Short: "Show the advisory lesson/charge projection for a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := buildClient(cmd)

		var id uint
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid student id %q", args[0])
		}

		proj, err := c.StudentProjection(context.Background(), id)
		if err != nil {
			return err
		}
		fmt.Printf("projection for student %d (as of %s):\n", proj.StudentID, proj.AsOf)
		for _, item := range proj.Items {
			fmt.Printf("  %-20s %3d lessons x %-12s = %s\n",
				item.CourseName, item.Lessons,
				moneyfmt.FormatUZS(item.PerLessonRate), moneyfmt.FormatUZS(item.Charge))
		}
		fmt.Printf("  total: %d lessons, %s\n", proj.TotalLessons, moneyfmt.FormatUZS(proj.TotalCharge))
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().String("base-url", "", "API base URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().String("session-file", "", "path to the persisted session file")
	rootCmd.PersistentFlags().String("config", "", "path to a viper config file")

	rootCmd.AddCommand(loginCmd, statsCmd, studentsCmd, projectCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("command failed", "error", err)
	}
}
