package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ashita-ai/groundcheck/internal/model"
	"github.com/ashita-ai/groundcheck/internal/storage"
	"github.com/ashita-ai/groundcheck/internal/verify"
)

func (s *Server) registerTools() {
	// groundcheck_verify — cross-check a draft against stored memories.
	s.mcpServer.AddTool(
		mcplib.NewTool("groundcheck_verify",
			mcplib.WithDescription(`Cross-check a draft response against the stored memories.

WHEN TO USE: BEFORE showing the user any response that states facts
about them, their project, or prior decisions.

WHAT YOU GET BACK:
- passed: whether every claim is supported and uncontradicted
- hallucinations: draft values no memory supports
- corrected: the draft with hallucinated values replaced (strict mode)
- contradiction_details: memories that disagree with each other
- requires_disclosure: true when you must tell the user sources conflict

EXAMPLE: verify "You work at Amazon and live in Seattle" against a
namespace holding "User works at Microsoft" to get the corrected draft
"You work at Microsoft and live in Seattle".`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("draft",
				mcplib.Description("The draft response to verify"),
				mcplib.Required(),
			),
			mcplib.WithString("namespace",
				mcplib.Description("Memory namespace to verify against; defaults to the server namespace"),
			),
			mcplib.WithString("mode",
				mcplib.Description(`"strict" (default) rewrites hallucinated values; "permissive" only reports them`),
			),
		),
		s.handleVerify,
	)

	// groundcheck_remember — persist a trust-scored memory.
	s.mcpServer.AddTool(
		mcplib.NewTool("groundcheck_remember",
			mcplib.WithDescription(`Store a fact as a trust-scored memory for later verification.

WHEN TO USE: whenever you establish a stable fact worth grounding
future responses on ("User works at Microsoft", "The backend is
FastAPI").

Be honest about trust: 1.0 for facts the user stated directly, lower
for inferred or second-hand facts. Trust drives contradiction
resolution and disclosure.`),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithIdempotentHintAnnotation(false),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("text",
				mcplib.Description("Natural-language content of the memory"),
				mcplib.Required(),
			),
			mcplib.WithNumber("trust",
				mcplib.Description("How reliable the source is (0.0-1.0)"),
				mcplib.Min(0),
				mcplib.Max(1),
				mcplib.DefaultNumber(1.0),
			),
			mcplib.WithString("namespace",
				mcplib.Description("Namespace to store under; defaults to the server namespace"),
			),
			mcplib.WithNumber("timestamp",
				mcplib.Description("Optional monotonic ordinal; newer wins recency tie-breaks"),
			),
		),
		s.handleRemember,
	)

	// groundcheck_recall — list stored memories.
	s.mcpServer.AddTool(
		mcplib.NewTool("groundcheck_recall",
			mcplib.WithDescription(`List the memories stored in a namespace, most recent last.
Use to inspect what verification will be grounded on.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("namespace",
				mcplib.Description("Namespace to list; defaults to the server namespace"),
			),
			mcplib.WithNumber("limit",
				mcplib.Description("Maximum memories to return"),
				mcplib.Min(1),
				mcplib.Max(1000),
				mcplib.DefaultNumber(100),
			),
		),
		s.handleRecall,
	)

	// groundcheck_forget — delete a memory or a namespace.
	s.mcpServer.AddTool(
		mcplib.NewTool("groundcheck_forget",
			mcplib.WithDescription(`Delete one memory by id, or every memory in a namespace.
Pass memory_id for a single deletion, or namespace to clear a project.`),
			mcplib.WithDestructiveHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("memory_id",
				mcplib.Description("Id of the memory to delete"),
			),
			mcplib.WithString("namespace",
				mcplib.Description("Namespace to clear (used when memory_id is absent)"),
			),
		),
		s.handleForget,
	)
}

func (s *Server) namespace(request mcplib.CallToolRequest) string {
	if ns := request.GetString("namespace", ""); ns != "" {
		return ns
	}
	return s.defaultNamespace
}

func (s *Server) handleVerify(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	draft := request.GetString("draft", "")
	if draft == "" {
		return errorResult("draft is required"), nil
	}
	mode := verify.Mode(request.GetString("mode", string(verify.ModeStrict)))
	ns := s.namespace(request)

	memories, err := s.store.List(ctx, ns, 0)
	if err != nil {
		return errorResult(fmt.Sprintf("load memories: %v", err)), nil
	}

	report, err := s.engine.Verify(draft, memories, mode)
	if err != nil {
		return errorResult(fmt.Sprintf("verify failed: %v", err)), nil
	}

	if s.metrics != nil {
		s.metrics.Verifications.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("passed", report.Passed),
			attribute.String("namespace", ns),
		))
		s.metrics.Hallucinations.Add(ctx, int64(len(report.Hallucinations)))
		if report.RequiresDisclosure {
			s.metrics.Disclosures.Add(ctx, 1)
		}
	}

	s.logger.Info("mcp: verified draft",
		"namespace", ns,
		"passed", report.Passed,
		"hallucinations", len(report.Hallucinations),
		"contradictions", len(report.Contradictions))

	return jsonResult(verifyResponse{
		Passed:             report.Passed,
		Corrected:          report.Corrected,
		Hallucinations:     report.Hallucinations,
		GroundingMap:       report.GroundingMap,
		Confidence:         report.Confidence,
		Contradictions:     report.Contradictions,
		RequiresDisclosure: report.RequiresDisclosure,
		MemoriesChecked:    len(memories),
	})
}

// verifyResponse is the JSON shape returned to MCP clients.
type verifyResponse struct {
	Passed             bool                  `json:"passed"`
	Corrected          *string               `json:"corrected,omitempty"`
	Hallucinations     []string              `json:"hallucinations,omitempty"`
	GroundingMap       map[string]*string    `json:"grounding_map"`
	Confidence         float64               `json:"confidence"`
	Contradictions     []model.Contradiction `json:"contradiction_details,omitempty"`
	RequiresDisclosure bool                  `json:"requires_disclosure"`
	MemoriesChecked    int                   `json:"memories_checked"`
}

func (s *Server) handleRemember(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	text := request.GetString("text", "")
	if text == "" {
		return errorResult("text is required"), nil
	}
	trust := request.GetFloat("trust", 1.0)
	if trust < 0 || trust > 1 {
		return errorResult(fmt.Sprintf("trust %v outside [0,1]", trust)), nil
	}
	m := model.Memory{Text: text, Trust: trust}
	if ts := request.GetInt("timestamp", -1); ts >= 0 {
		v := int64(ts)
		m.Timestamp = &v
	}
	ns := s.namespace(request)

	id, err := s.store.Insert(ctx, ns, m)
	if err != nil {
		return errorResult(fmt.Sprintf("store memory: %v", err)), nil
	}
	s.logger.Info("mcp: memory stored", "namespace", ns, "memory_id", id)
	return jsonResult(map[string]any{"memory_id": id, "namespace": ns})
}

func (s *Server) handleRecall(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	ns := s.namespace(request)
	limit := request.GetInt("limit", 100)

	memories, err := s.store.List(ctx, ns, limit)
	if err != nil {
		return errorResult(fmt.Sprintf("load memories: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"namespace": ns,
		"count":     len(memories),
		"memories":  memories,
	})
}

func (s *Server) handleForget(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if id := request.GetString("memory_id", ""); id != "" {
		if err := s.store.Delete(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errorResult(fmt.Sprintf("no memory with id %q", id)), nil
			}
			return errorResult(fmt.Sprintf("delete memory: %v", err)), nil
		}
		return textResult(fmt.Sprintf("deleted memory %s", id)), nil
	}

	ns := request.GetString("namespace", "")
	if ns == "" {
		return errorResult("memory_id or namespace is required"), nil
	}
	n, err := s.store.DeleteNamespace(ctx, ns)
	if err != nil {
		return errorResult(fmt.Sprintf("delete namespace: %v", err)), nil
	}
	return textResult(fmt.Sprintf("deleted %d memories from namespace %q", n, ns)), nil
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("encode result: %v", err)), nil
	}
	return textResult(string(data)), nil
}
