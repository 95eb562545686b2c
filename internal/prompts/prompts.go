// Package prompts registers reusable MCP prompts that guide a model
// through common Drive and Docs workflows.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterPrompts registers all prompts with the MCP server
func RegisterPrompts(s *mcpserver.MCPServer) error {
	createDocPrompt := mcp.NewPrompt(
		"create-doc-template",
		mcp.WithPromptDescription("Guide the model to create a well-structured Google Doc on a topic"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("The subject of the document"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("style",
			mcp.ArgumentDescription("The writing style, e.g. formal, casual, technical"),
		),
	)

	s.AddPrompt(createDocPrompt, func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		topic := request.Params.Arguments["topic"]
		if topic == "" {
			return nil, fmt.Errorf("topic is required")
		}

		style := request.Params.Arguments["style"]
		if style == "" {
			style = "formal"
		}

		text := fmt.Sprintf("Please create a Google Doc about %s in a %s writing style. "+
			"Make sure it is well-structured with an introduction, main sections, and a conclusion. "+
			"Use the create-doc tool to create it.", topic, style)

		return mcp.NewGetPromptResult(
			"Create a structured document",
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
			},
		), nil
	})

	analyzeDocPrompt := mcp.NewPrompt(
		"analyze-doc",
		mcp.WithPromptDescription("Guide the model to analyze an existing Google Doc"),
		mcp.WithArgument("doc_id",
			mcp.ArgumentDescription("The ID of the document to analyze"),
			mcp.RequiredArgument(),
		),
	)

	s.AddPrompt(analyzeDocPrompt, func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		docID := request.Params.Arguments["doc_id"]
		if docID == "" {
			return nil, fmt.Errorf("doc_id is required")
		}

		text := fmt.Sprintf("Please analyze the content of the document with ID %s. "+
			"Read it via the googledocs://%s resource, then provide a summary of its content, "+
			"structure, key points, and any suggestions for improvement.", docID, docID)

		return mcp.NewGetPromptResult(
			"Analyze a document",
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
			},
		), nil
	})

	folderStructurePrompt := mcp.NewPrompt(
		"create-folder-structure",
		mcp.WithPromptDescription("Guide the model to design a folder hierarchy in Google Drive"),
		mcp.WithArgument("purpose",
			mcp.ArgumentDescription("What the folder structure is for, e.g. 'a product launch'"),
			mcp.RequiredArgument(),
		),
	)

	s.AddPrompt(folderStructurePrompt, func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		purpose := request.Params.Arguments["purpose"]
		if purpose == "" {
			return nil, fmt.Errorf("purpose is required")
		}

		text := fmt.Sprintf("I need a well-organized folder structure in Google Drive for %s. "+
			"Please suggest an appropriate folder hierarchy with subfolders, including folder names "+
			"and a brief description of what should go in each folder. "+
			"Then create it with the create-folder tool.", purpose)

		return mcp.NewGetPromptResult(
			"Design a folder structure",
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
			},
		), nil
	})

	return nil
}
