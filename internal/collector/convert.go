package collector

import (
	"strconv"
	"strings"

	"github.com/google/go-github/v57/github"

	"github.com/alimgiray/coursescope/internal/stats"
)

func ItemFromIssue(issue *github.Issue) stats.Item {
	return stats.Item{
		Kind:      stats.KindIssue,
		Number:    issue.GetNumber(),
		Author:    issue.GetUser().GetLogin(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		CreatedAt: issue.GetCreatedAt().Time,
	}
}

func ItemFromPullRequest(pr *github.PullRequest) stats.Item {
	return stats.Item{
		Kind:      stats.KindPullRequest,
		Number:    pr.GetNumber(),
		Author:    pr.GetUser().GetLogin(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		CreatedAt: pr.GetCreatedAt().Time,
	}
}

func CommentFromIssueComment(comment *github.IssueComment) stats.Comment {
	return stats.Comment{
		Author:    comment.GetUser().GetLogin(),
		Body:      comment.GetBody(),
		CreatedAt: comment.GetCreatedAt().Time,
	}
}

func CommentFromReviewComment(comment *github.PullRequestComment) stats.Comment {
	return stats.Comment{
		Author:    comment.GetUser().GetLogin(),
		Body:      comment.GetBody(),
		CreatedAt: comment.GetCreatedAt().Time,
	}
}

// CommentFromReview treats the summary text of a review as a comment
func CommentFromReview(review *github.PullRequestReview) stats.Comment {
	return stats.Comment{
		Author:    review.GetUser().GetLogin(),
		Body:      review.GetBody(),
		CreatedAt: review.GetSubmittedAt().Time,
	}
}

// numberFromURL reads the trailing issue or pull request number of an API URL,
// e.g. https://api.github.com/repos/acme/web/issues/12
func numberFromURL(url string) (int, bool) {
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(url[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
