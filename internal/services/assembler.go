package services

import (
	"context"
	"html/template"

	"buslink/internal/models"
	"buslink/internal/utils"
)

// PostWithAuthor is the view model returned by every post read.
type PostWithAuthor struct {
	Post        models.Post   `json:"post"`
	Author      models.Author `json:"author"`
	ContentHTML template.HTML `json:"contentHtml"`
}

// Assembler joins stored posts with their authors from the identity provider.
type Assembler struct {
	users IdentityProvider
}

func NewAssembler(users IdentityProvider) *Assembler {
	return &Assembler{users: users}
}

// AddUserDataToPosts resolves every author in one batched lookup and returns
// the composites in input order. A post without a resolvable author with a
// username fails the whole batch.
func (a *Assembler) AddUserDataToPosts(ctx context.Context, posts []models.Post) ([]PostWithAuthor, error) {
	result := make([]PostWithAuthor, 0, len(posts))
	if len(posts) == 0 {
		return result, nil
	}

	seen := make(map[string]bool, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	users, err := a.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, Internal("failed to load authors", err)
	}

	authorMap := make(map[string]models.Author, len(users))
	for _, u := range users {
		authorMap[u.ID] = u
	}

	for _, p := range posts {
		author, ok := authorMap[p.AuthorID]
		if !ok || author.Username == "" {
			return nil, Internal("author for post not found", nil)
		}
		if p.Comments == nil {
			p.Comments = []models.Post{}
		}
		p.CommentCount = len(p.Comments)
		result = append(result, PostWithAuthor{
			Post:        p,
			Author:      author,
			ContentHTML: utils.RenderMarkdown(p.Content),
		})
	}
	return result, nil
}
