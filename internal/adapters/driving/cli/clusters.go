package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

var clustersJSON bool

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List topic clusters",
	RunE:  runClusters,
}

var clusterShowCmd = &cobra.Command{
	Use:   "show [cluster-id]",
	Short: "Show one cluster in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runClusterShow,
}

func init() {
	clustersCmd.Flags().BoolVar(&clustersJSON, "json", false, "output as JSON")
	clustersCmd.AddCommand(clusterShowCmd)
	rootCmd.AddCommand(clustersCmd)
}

func runClusters(cmd *cobra.Command, args []string) error {
	if clusterService == nil {
		return errors.New("cluster service not configured")
	}

	clusters, err := clusterService.ListClusters(context.Background(), owner())
	if err != nil {
		return fmt.Errorf("list clusters failed: %w", err)
	}

	if clustersJSON {
		data, err := json.MarshalIndent(clusters, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal clusters: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(clusters) == 0 {
		cmd.Println("No clusters yet.")
		return nil
	}

	for i := range clusters {
		printClusterSummary(cmd, &clusters[i])
	}
	return nil
}

func runClusterShow(cmd *cobra.Command, args []string) error {
	if clusterService == nil {
		return errors.New("cluster service not configured")
	}

	cluster, err := clusterService.GetCluster(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("get cluster failed: %w", err)
	}

	printClusterSummary(cmd, cluster)
	if len(cluster.ConceptNames) > 0 {
		cmd.Printf("  Concepts: %s\n", strings.Join(cluster.ConceptNames, ", "))
	}
	for _, docID := range cluster.DocumentIDs {
		cmd.Printf("  - %s\n", docID)
	}
	return nil
}

func printClusterSummary(cmd *cobra.Command, cluster *domain.Cluster) {
	cmd.Printf("%s  %s (%d documents, %s)\n",
		cluster.ID, cluster.Name, len(cluster.DocumentIDs), cluster.SkillLevel)
}
