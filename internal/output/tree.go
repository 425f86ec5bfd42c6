package output

import (
	"strings"
)

const (
	// Tree characters
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// Description alignment column
	descriptionColumn = 56
)

// TreeNode represents a node in a rendered tree. Children keep insertion order.
type TreeNode struct {
	Name        string
	Description string
	Children    []*TreeNode
}

// Add appends a child node and returns it.
func (n *TreeNode) Add(name, description string) *TreeNode {
	child := &TreeNode{Name: name, Description: description}
	n.Children = append(n.Children, child)
	return child
}

// RenderTree renders one or more root nodes with descriptions aligned.
func RenderTree(roots ...*TreeNode) string {
	var sb strings.Builder
	for _, root := range roots {
		renderNode(&sb, root, "", true, true)
	}
	return sb.String()
}

// renderNode recursively renders a tree node with proper indentation and styling.
func renderNode(sb *strings.Builder, node *TreeNode, prefix string, isRoot, isLast bool) {
	styles := GetStyles()

	var line string
	if isRoot {
		line = styles.Bold.Render(node.Name)
	} else {
		connector := treeEdge
		if isLast {
			connector = treeLast
		}
		line = prefix + connector + node.Name
	}

	if node.Description != "" {
		padding := descriptionColumn - len(line)
		if padding < 2 {
			padding = 2
		}
		line += strings.Repeat(" ", padding)
		line += styles.Muted.Render(node.Description)
	}

	sb.WriteString(line)
	sb.WriteString("\n")

	for i, child := range node.Children {
		childIsLast := i == len(node.Children)-1

		var childPrefix string
		switch {
		case isRoot:
			childPrefix = ""
		case isLast:
			childPrefix = prefix + treeSpace
		default:
			childPrefix = prefix + treeVert
		}

		renderNode(sb, child, childPrefix, false, childIsLast)
	}
}
