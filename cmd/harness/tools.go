package main

import (
	"fmt"

	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type toolSummary struct {
	Name     string         `yaml:"name"`
	Title    string         `yaml:"title,omitempty"`
	Template string         `yaml:"template,omitempty"`
	Fields   []fieldSummary `yaml:"fields,omitempty"`
}

type fieldSummary struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required,omitempty"`
}

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools <server-url>",
		Short: "List a server's tools with their widget templates and form fields as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runTools,
	}

	cmd.Flags().Bool("insecure", false, "Skip TLS verification")
	return cmd
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	insecure, _ := cmd.Flags().GetBool("insecure")
	opts := mcpclient.SessionOptions{AllowInsecureTransport: insecure || cfg.AllowInsecureTransport}

	sess, err := newConnector(cfg).Connect(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	tools, err := sess.ListTools(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing tools: %w", err)
	}

	summaries := make([]toolSummary, 0, len(tools))
	for _, t := range tools {
		s := toolSummary{Name: t.Name, Title: t.Title}
		s.Template, _ = t.Meta.OutputTemplateRef()
		for _, p := range t.InputSchema.Properties {
			s.Fields = append(s.Fields, fieldSummary{Name: p.Name, Type: p.Type.String(), Required: p.Required})
		}
		summaries = append(summaries, s)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(summaries); err != nil {
		return err
	}
	return enc.Close()
}
