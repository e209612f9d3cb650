package cmd

import (
	"fmt"
	"os"

	"github.com/darkron008/tipsplit/internal/hub"
	"github.com/darkron008/tipsplit/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tip distribution API over HTTP",
	Long: `Start an HTTP server with an upload endpoint. POST spreadsheets to
/api/distribute and get the per-employee distribution back as JSON or as a
downloadable xlsx summary.

Examples:
  tipsplit serve
  tipsplit serve --port 9000
  curl -F "files=@shifts.xlsx" localhost:8080/api/distribute`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default 8080, or 'port' from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	port := servePort
	if port == "" {
		port = viper.GetString("port")
	}
	if port == "" {
		port = "8080"
	}

	h := hub.New()
	defer h.Close()

	s := server.New(h, runOptions(), port)
	fmt.Fprintf(os.Stderr, "💰 tipsplit listening on :%s\n", port)
	return s.Start()
}
