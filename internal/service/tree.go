package service

import (
	"github.com/blog-comment-service/internal/models"
)

// BuildCommentTree reconstructs the reply nesting from a flat, pre-sorted
// comment list. First pass indexes every node by id; second pass attaches
// each node to its parent's replies, preserving the input order per level.
// A node whose parent id does not resolve becomes a root rather than being
// dropped: a moderated-away parent must not swallow its subtree.
//
// Nesting depth is not re-validated here; it was enforced at creation time.
func BuildCommentTree(comments []*models.CommentResponse) []*models.CommentResponse {
	nodes := make(map[string]*models.CommentResponse, len(comments))
	for _, c := range comments {
		nodes[c.ID] = c
	}

	roots := make([]*models.CommentResponse, 0, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			// Orphaned reply; surface it as a root.
			roots = append(roots, c)
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}

	return roots
}
