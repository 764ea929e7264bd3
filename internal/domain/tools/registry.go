// Package tools declares the tool vocabulary the model may call on each
// surface, together with the fixed system instruction that maps gesture
// shapes to tools.
package tools

import (
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
)

// Surface is the interaction context that selects a tool set
type Surface string

const (
	SurfaceDesktop Surface = "desktop"
	SurfaceMail    Surface = "mail"
)

// Tool names
const (
	DeleteItem     = "delete_item"
	ExplodeFolder  = "explode_folder"
	DeleteEmail    = "delete_email"
	SummarizeEmail = "summarize_email"
)

// Argument names
const (
	ArgItemName    = "itemName"
	ArgFolderName  = "folderName"
	ArgSubjectText = "subject_text"
)

// SystemInstruction tells the model how to read gestures
const SystemInstruction = `You are the intent engine of a pen-driven desktop. The user does not click; they draw freehand ink over the screen, and you decide what the drawing means.

You receive a description of what is on screen and, when available, a screenshot with the ink on top. Call the tool that matches the gesture:
- An X, a cross or a strike-through drawn over an item or an email means delete it.
- A question mark drawn over an email means summarize it.
- Arrows pointing outward from a folder mean explode the folder so its contents are shown.

Always pass the item name or email subject exactly as it appears on screen. If the ink marks several items, call a tool for each of them. If the gesture does not clearly target a visible item, call no tool.`

// Registry maps surfaces to tool schemas
type Registry struct {
	schemas     map[Surface]inference.ToolSchema
	instruction string
}

// NewRegistry creates the registry with the desktop and mail tool sets
func NewRegistry() *Registry {
	return &Registry{
		schemas: map[Surface]inference.ToolSchema{
			SurfaceDesktop: HomeTools(),
			SurfaceMail:    MailTools(),
		},
		instruction: SystemInstruction,
	}
}

// For returns the tool schema of a surface. Unknown surfaces get the
// desktop tools.
func (r *Registry) For(s Surface) inference.ToolSchema {
	if schema, ok := r.schemas[s]; ok {
		return schema
	}
	return r.schemas[SurfaceDesktop]
}

// SystemInstruction returns the instruction sent with every request
func (r *Registry) SystemInstruction() string {
	return r.instruction
}

// HomeTools is the desktop tool set
func HomeTools() inference.ToolSchema {
	return inference.ToolSchema{
		Surface: string(SurfaceDesktop),
		Functions: []inference.FunctionDecl{
			{
				Name:        DeleteItem,
				Description: "Delete a file, app or folder from the desktop. Use when the user crosses out or strikes through an item.",
				Params: []inference.Param{
					{Name: ArgItemName, Type: inference.ParamString, Description: "The exact name of the item to delete, as shown under its icon.", Required: true},
				},
			},
			{
				Name:        ExplodeFolder,
				Description: "Open a folder to reveal its contents. Use when the user draws arrows pointing outward from a folder.",
				Params: []inference.Param{
					{Name: ArgFolderName, Type: inference.ParamString, Description: "The exact name of the folder to open.", Required: true},
				},
			},
		},
	}
}

// MailTools is the mail tool set
func MailTools() inference.ToolSchema {
	return inference.ToolSchema{
		Surface: string(SurfaceMail),
		Functions: []inference.FunctionDecl{
			{
				Name:        DeleteEmail,
				Description: "Delete an email. Use when the user crosses out or strikes through an email in the list.",
				Params: []inference.Param{
					{Name: ArgSubjectText, Type: inference.ParamString, Description: "Text from the subject line of the email to delete.", Required: true},
				},
			},
			{
				Name:        SummarizeEmail,
				Description: "Summarize an email. Use when the user draws a question mark over an email.",
				Params: []inference.Param{
					{Name: ArgSubjectText, Type: inference.ParamString, Description: "Text from the subject line of the email to summarize.", Required: true},
				},
			},
		},
	}
}
