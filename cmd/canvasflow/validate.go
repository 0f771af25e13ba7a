package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/canvasflow/canvasflow/pkg/cmd"
	"github.com/canvasflow/canvasflow/pkg/log"
	"github.com/canvasflow/canvasflow/pkg/logicalid"
	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/canvasflow/canvasflow/pkg/registry"
	"github.com/canvasflow/canvasflow/pkg/services"
	"github.com/urfave/cli/v3"
)

// Static error variables for linter compliance.
var (
	ErrInvalidNodes       = errors.New("invalid nodes found")
	ErrInvalidConnections = errors.New("invalid connections found")
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate stored workflows: logical ids, connections and node configurations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := slog.With(
				"module", "canvasflow",
				"action", "validate",
			)

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					return
				}
			}()

			workflowService := services.NewWorkflow(persistence, nil, nil, logger)

			workflows, err := workflowService.ListWorkflows(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch workflows: %w", err)
			}

			logger.Info("Validating workflows", "workflows", len(workflows))

			_, _ = fmt.Fprintln(os.Stdout, "Workflow Validation Results:")
			_, _ = fmt.Fprintln(os.Stdout, "============================")

			reg := registry.NewRegistry(logger)

			validNodes := 0
			invalidNodes := 0
			validConnections := 0
			invalidConnections := 0

			for _, workflow := range workflows {
				_, _ = fmt.Fprintf(os.Stdout, "\nWorkflow: %s (%s)\n", workflow.Workflow.Name, workflow.ID)

				nodeIDs := make(map[string]struct{}, len(workflow.Nodes))
				logicalIDs := make(map[string]string, len(workflow.Nodes))

				for _, node := range workflow.Nodes {
					nodeIDs[node.ID] = struct{}{}
				}

				for _, node := range workflow.Nodes {
					_, _ = fmt.Fprintf(os.Stdout, "  Node: %s (%s)\n", node.Name, node.Type)

					ok := true

					logicalID, _ := node.Config["logicalId"].(string)

					switch {
					case logicalID == "":
						_, _ = fmt.Fprintf(os.Stdout, "    ❌ INVALID: missing logical id\n")

						ok = false
					case !logicalid.IsValidFormat(logicalID):
						_, _ = fmt.Fprintf(os.Stdout, "    ❌ INVALID: malformed logical id %q\n", logicalID)

						ok = false
					default:
						if other, taken := logicalIDs[logicalID]; taken {
							_, _ = fmt.Fprintf(os.Stdout, "    ❌ INVALID: logical id %q already used by node %s\n", logicalID, other)

							ok = false
						} else {
							logicalIDs[logicalID] = node.ID
						}
					}

					nodeType := models.NodeType(node.Type)
					if nodeType.Valid() {
						if err := reg.ValidateConfig(nodeType, node.Config); err != nil {
							_, _ = fmt.Fprintf(os.Stdout, "    ❌ INVALID: %v\n", err)

							ok = false
						}
					} else {
						_, _ = fmt.Fprintf(os.Stdout, "    ⚠️  UNKNOWN TYPE: %q (config not validated)\n", node.Type)
					}

					if ok {
						_, _ = fmt.Fprintf(os.Stdout, "    ✅ VALID\n")
						validNodes++
					} else {
						invalidNodes++
					}
				}

				for _, connection := range workflow.Connections {
					_, fromOK := nodeIDs[connection.FromNode]
					_, toOK := nodeIDs[connection.ToNode]

					if fromOK && toOK {
						validConnections++

						continue
					}

					_, _ = fmt.Fprintf(os.Stdout, "  ❌ DANGLING: connection %s (%s -> %s)\n",
						connection.ID, connection.FromNode, connection.ToNode)
					invalidConnections++
				}
			}

			_, _ = fmt.Fprintf(os.Stdout, "\nValidation Summary:\n")
			_, _ = fmt.Fprintf(os.Stdout, "  Total nodes: %d\n", validNodes+invalidNodes)
			_, _ = fmt.Fprintf(os.Stdout, "  Valid nodes: %d\n", validNodes)
			_, _ = fmt.Fprintf(os.Stdout, "  Invalid nodes: %d\n", invalidNodes)
			_, _ = fmt.Fprintf(os.Stdout, "  Total connections: %d\n", validConnections+invalidConnections)
			_, _ = fmt.Fprintf(os.Stdout, "  Valid connections: %d\n", validConnections)
			_, _ = fmt.Fprintf(os.Stdout, "  Dangling connections: %d\n", invalidConnections)

			if invalidNodes > 0 {
				return fmt.Errorf("%w: %d", ErrInvalidNodes, invalidNodes)
			}

			if invalidConnections > 0 {
				return fmt.Errorf("%w: %d", ErrInvalidConnections, invalidConnections)
			}

			_, _ = fmt.Fprintln(os.Stdout, "All workflows are valid! ✅")

			return nil
		},
	}
}
