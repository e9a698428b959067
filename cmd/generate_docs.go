package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/tools/common"
)

func newGenerateDocsCmd(opts *rootOptions) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(cmd, opts, func(_ context.Context, registry *common.Registry) error {
				markdown := generateToolsMarkdown(registry.Tools())
				if outputFile == "" {
					fmt.Fprint(cmd.OutOrStdout(), markdown)
					return nil
				}
				if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func generateToolsMarkdown(tools []common.StringTool) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document lists every tool available when running deskhand as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	toolsByCategory := groupToolsByCategory(tools)

	categories := make([]string, 0, len(toolsByCategory))
	for category := range toolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", category, anchor))
	}
	sb.WriteString("\n")

	sb.WriteString("## Calling Convention\n\n")
	sb.WriteString(fmt.Sprintf("Every tool takes a single string argument, `%s`, and returns a single string. ", common.InputArgument))
	sb.WriteString("Structured inputs use `Name: value` fields separated by `|`, for example `To: bob@example.com | Subject: Hi | Body: Hello`. ")
	sb.WriteString("Failures are returned as tool errors whose text starts with ❌.\n\n")

	for _, category := range categories {
		categoryTools := toolsByCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", category))
		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func groupToolsByCategory(tools []common.StringTool) map[string][]common.StringTool {
	categories := make(map[string][]common.StringTool)
	for _, tool := range tools {
		category := categoryForService(tool.Service)
		categories[category] = append(categories[category], tool)
	}
	return categories
}

func categoryForService(service string) string {
	switch service {
	case instrumentation.ServiceGmail, instrumentation.ServiceOpenAI:
		return "Gmail Tools"
	case instrumentation.ServiceCalendar:
		return "Google Calendar Tools"
	case instrumentation.ServiceGoogle:
		return "Google Account Tools"
	case instrumentation.ServiceJira:
		return "Jira Tools"
	case instrumentation.ServiceWikipedia:
		return "Search Tools"
	case instrumentation.ServiceLocal:
		return "Math Tools"
	default:
		return "Other"
	}
}

func generateToolMarkdown(tool common.StringTool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))
	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}
	if tool.InputHelp != "" {
		sb.WriteString(fmt.Sprintf("**Input:** %s\n", tool.InputHelp))
	}

	return sb.String()
}
