package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/tsingjyujing/glossa/controller"
	"github.com/tsingjyujing/glossa/detector"
)

type DetectInput struct {
	Text  string `json:"text" jsonschema:"the text whose language should be identified"`
	Short bool   `json:"short" jsonschema:"use the short-text profile set, better for message-length input"`
}

type DetectOutput struct {
	Language      string              `json:"lang" jsonschema:"the detected language code, or unknown"`
	Probabilities []detector.Language `json:"probabilities" jsonschema:"the ranked probability distribution"`
}

type ListLanguagesInput struct {
	Short bool `json:"short" jsonschema:"list the short-text profile set instead of the standard one"`
}

type ListLanguagesOutput struct {
	Languages []string `json:"languages" jsonschema:"the detectable language codes"`
}

type GlossaMCP struct {
	client   *http.Client
	endpoint url.URL
}

func (g GlossaMCP) GetUrl(relativePath string, parameters map[string]string) (*url.URL, error) {
	u, err := url.Parse(relativePath)
	if err != nil {
		return nil, err
	}
	u = g.endpoint.ResolveReference(u)
	if parameters != nil {
		q := u.Query()
		for k, v := range parameters {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

func shortParam(short bool) map[string]string {
	if short {
		return map[string]string{"short": "1"}
	}
	return nil
}

func (g GlossaMCP) DetectLanguage(ctx context.Context, req *mcp.CallToolRequest, input DetectInput) (*mcp.CallToolResult, DetectOutput, error) {
	detectUrl, err := g.GetUrl("/api/v1/detect", shortParam(input.Short))
	if err != nil {
		return nil, DetectOutput{}, err
	}
	body, err := json.Marshal(controller.DetectParams{Text: input.Text})
	if err != nil {
		return nil, DetectOutput{}, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, detectUrl.String(), bytes.NewReader(body))
	if err != nil {
		return nil, DetectOutput{}, err
	}
	request.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(request)
	if err != nil {
		return nil, DetectOutput{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, DetectOutput{}, fmt.Errorf("detect request failed with status %d", resp.StatusCode)
	}
	var record controller.DetectionRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, DetectOutput{}, err
	}
	return nil, DetectOutput{Language: record.Language, Probabilities: record.Probabilities}, nil
}

func (g GlossaMCP) ListLanguages(ctx context.Context, req *mcp.CallToolRequest, input ListLanguagesInput) (*mcp.CallToolResult, ListLanguagesOutput, error) {
	listUrl, err := g.GetUrl("/api/v1/languages", shortParam(input.Short))
	if err != nil {
		return nil, ListLanguagesOutput{}, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, listUrl.String(), nil)
	if err != nil {
		return nil, ListLanguagesOutput{}, err
	}
	resp, err := g.client.Do(request)
	if err != nil {
		return nil, ListLanguagesOutput{}, err
	}
	defer resp.Body.Close()
	var languages []string
	if err := json.NewDecoder(resp.Body).Decode(&languages); err != nil {
		return nil, ListLanguagesOutput{}, err
	}
	return nil, ListLanguagesOutput{Languages: languages}, nil
}

func NewMcpCommand() *cobra.Command {
	var glossaEndpoint string

	mcpCommand := &cobra.Command{
		Use:   "mcp",
		Short: "Starting MCP server",
		Run: func(cmd *cobra.Command, args []string) {
			parsedURL, err := url.Parse(glossaEndpoint)
			if err != nil {
				logger.Fatalf("Invalid Glossa endpoint URL: %v", err)
			}
			g := GlossaMCP{
				client:   http.DefaultClient,
				endpoint: *parsedURL,
			}
			server := mcp.NewServer(&mcp.Implementation{Name: "glossa-mcp", Title: "MCP server for language identification via Glossa", Version: "v1.0.0"}, nil)
			mcp.AddTool(server, &mcp.Tool{Name: "detect_language", Description: "Identify the natural language of a piece of text"}, g.DetectLanguage)
			mcp.AddTool(server, &mcp.Tool{Name: "list_languages", Description: "List the language codes the detector can identify"}, g.ListLanguages)
			if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
				logger.Fatal(err)
			}
		},
	}
	mcpCommand.Flags().StringVarP(
		&glossaEndpoint,
		"endpoint",
		"e", "http://localhost:8080",
		"Glossa server endpoint URL",
	)
	return mcpCommand
}
