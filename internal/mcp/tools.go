package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, svcs Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_all",
		Description: "Resolve the latest login for every local account",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ ResolveAllParams) (*sdkmcp.CallToolResult, ResolveAllResult, error) {
		records, err := svcs.Resolver.ResolveAll()
		if err != nil {
			return nil, ResolveAllResult{}, mapError(err)
		}
		source, err := svcs.Resolver.Source()
		if err != nil {
			return nil, ResolveAllResult{}, mapError(err)
		}
		result := ResolveAllResult{Source: source, Records: make([]RecordResponse, 0, len(records))}
		for _, rec := range records {
			result.Records = append(result.Records, toRecordResponse(rec))
		}
		return nil, result, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_user",
		Description: "Resolve the latest login for one account, by name or numeric uid",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ResolveUserParams) (*sdkmcp.CallToolResult, RecordResponse, error) {
		switch {
		case params.Name != "":
			rec, err := svcs.Resolver.ResolveName(params.Name)
			if err != nil {
				return nil, RecordResponse{}, mapError(err)
			}
			return nil, toRecordResponse(rec), nil
		case params.UID != nil:
			rec, err := svcs.Resolver.ResolveUID(*params.UID)
			if err != nil {
				return nil, RecordResponse{}, mapError(err)
			}
			return nil, toRecordResponse(rec), nil
		default:
			return nil, RecordResponse{}, fmt.Errorf("either name or uid is required")
		}
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "boot_time",
		Description: "Return the most recent system boot record",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ BootTimeParams) (*sdkmcp.CallToolResult, RecordResponse, error) {
		rec, err := svcs.Resolver.ResolveBootTime()
		if err != nil {
			return nil, RecordResponse{}, mapError(err)
		}
		return nil, toRecordResponse(rec), nil
	})

	if svcs.History == nil {
		return
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "take_snapshot",
		Description: "Archive the current full resolution into the history store",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ TakeSnapshotParams) (*sdkmcp.CallToolResult, SnapshotResult, error) {
		records, err := svcs.Resolver.ResolveAll()
		if err != nil {
			return nil, SnapshotResult{}, mapError(err)
		}
		source, err := svcs.Resolver.Source()
		if err != nil {
			return nil, SnapshotResult{}, mapError(err)
		}
		snap, err := svcs.History.Archive(ctx, source, records)
		if err != nil {
			return nil, SnapshotResult{}, err
		}
		return nil, toSnapshotResult(*snap), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_snapshots",
		Description: "List archived resolution snapshots, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ListSnapshotsParams) (*sdkmcp.CallToolResult, ListSnapshotsResult, error) {
		snaps, err := svcs.History.List(ctx, params.Limit)
		if err != nil {
			return nil, ListSnapshotsResult{}, err
		}
		result := ListSnapshotsResult{Snapshots: make([]SnapshotResult, 0, len(snaps))}
		for _, snap := range snaps {
			result.Snapshots = append(result.Snapshots, toSnapshotResult(snap))
		}
		return nil, result, nil
	})
}
