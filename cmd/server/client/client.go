// Package client provides test commands for the RunService gRPC API
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/dungeon/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
	profileID  string
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the RunService API",
	Long:  `Client commands exercise a running server by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&profileID, "as", "", "progression profile to act as")

	// Run commands
	ClientCmd.AddCommand(startCmd)
	ClientCmd.AddCommand(stepCmd)
	ClientCmd.AddCommand(autoplayCmd)
	ClientCmd.AddCommand(getCmd)
	ClientCmd.AddCommand(abortCmd)
	ClientCmd.AddCommand(listCmd)

	// Progression commands
	ClientCmd.AddCommand(unlocksCmd)
	ClientCmd.AddCommand(buyCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// call sends one request and prints the response as indented JSON
func call(cmd *cobra.Command, method string, req map[string]any) error {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	conn, err := createConnection()
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := v1alpha1.Call(ctx, conn, method, in)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}

	marshaler := protojson.MarshalOptions{
		Indent:          "  ",
		EmitUnpopulated: false,
	}
	jsonBytes, err := marshaler.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}

func withProfile(req map[string]any) map[string]any {
	if profileID != "" {
		req["profile_id"] = profileID
	}
	return req
}
