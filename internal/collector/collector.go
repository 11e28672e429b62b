// Package collector fetches issue and pull request activity from GitHub and converts
// it into statistics items.
package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/alimgiray/coursescope/internal/stats"
	"github.com/alimgiray/coursescope/pkg/logger"
)

const (
	perPage = 100
	// reviewWorkers bounds the per pull request review requests in flight
	reviewWorkers = 4
)

// Collector pages through a repository's issues, pull requests and comments
type Collector struct {
	client  *github.Client
	limiter *rate.Limiter
}

// New creates a collector authenticated with token. An empty token uses anonymous
// access, which GitHub limits to 60 requests per hour.
func New(token string, requestsPerSecond int) *Collector {
	if token == "" {
		return NewWithClient(github.NewClient(nil), requestsPerSecond)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewWithClient(github.NewClient(oauth2.NewClient(context.Background(), ts)), requestsPerSecond)
}

// NewWithClient wraps an existing client. requestsPerSecond <= 0 disables pacing.
func NewWithClient(client *github.Client, requestsPerSecond int) *Collector {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Collector{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Collect returns every issue and pull request of owner/repo created at or after
// since, each with its conversation, review comments and review bodies attached.
// A zero since collects everything. GitHub applies since to update times, so it only
// narrows the listing; the creation window is enforced here for issues and pull
// requests alike.
func (c *Collector) Collect(ctx context.Context, owner, repo string, since time.Time) ([]stats.Item, error) {
	log := logger.WithFields(logrus.Fields{"owner": owner, "repo": repo})

	var (
		issues         []*github.Issue
		pulls          []*github.PullRequest
		issueComments  []*github.IssueComment
		reviewComments []*github.PullRequestComment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		issues, err = c.fetchIssues(gctx, owner, repo, since)
		return err
	})
	g.Go(func() (err error) {
		pulls, err = c.fetchPullRequests(gctx, owner, repo)
		return err
	})
	g.Go(func() (err error) {
		issueComments, err = c.fetchIssueComments(gctx, owner, repo, since)
		return err
	})
	g.Go(func() (err error) {
		reviewComments, err = c.fetchReviewComments(gctx, owner, repo, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect %s/%s: %w", owner, repo, err)
	}

	items := make(map[int]*stats.Item)
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		item := ItemFromIssue(issue)
		if !since.IsZero() && item.CreatedAt.Before(since) {
			continue
		}
		items[item.Number] = &item
	}

	var kept []*github.PullRequest
	for _, pr := range pulls {
		item := ItemFromPullRequest(pr)
		if !since.IsZero() && item.CreatedAt.Before(since) {
			continue
		}
		items[item.Number] = &item
		kept = append(kept, pr)
	}

	reviews, err := c.fetchReviews(ctx, owner, repo, kept)
	if err != nil {
		return nil, fmt.Errorf("failed to collect reviews of %s/%s: %w", owner, repo, err)
	}

	attach := func(number int, comment stats.Comment, ok bool) {
		if !ok {
			return
		}
		if item, found := items[number]; found {
			item.Comments = append(item.Comments, comment)
		}
	}
	for _, comment := range issueComments {
		number, ok := numberFromURL(comment.GetIssueURL())
		attach(number, CommentFromIssueComment(comment), ok)
	}
	for _, comment := range reviewComments {
		number, ok := numberFromURL(comment.GetPullRequestURL())
		attach(number, CommentFromReviewComment(comment), ok)
	}
	for number, prReviews := range reviews {
		for _, review := range prReviews {
			if review.GetBody() == "" {
				continue
			}
			attach(number, CommentFromReview(review), true)
		}
	}

	out := make([]stats.Item, 0, len(items))
	for _, item := range items {
		sort.SliceStable(item.Comments, func(i, j int) bool {
			return item.Comments[i].CreatedAt.Before(item.Comments[j].CreatedAt)
		})
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	log.WithFields(logrus.Fields{
		"items":           len(out),
		"issue_comments":  len(issueComments),
		"review_comments": len(reviewComments),
	}).Info("Collected repository activity")

	return out, nil
}

func (c *Collector) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

func (c *Collector) fetchIssues(ctx context.Context, owner, repo string, since time.Time) ([]*github.Issue, error) {
	var all []*github.Issue
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, issues...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (c *Collector) fetchPullRequests(ctx context.Context, owner, repo string) ([]*github.PullRequest, error) {
	var all []*github.PullRequest
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		prs, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, prs...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// fetchIssueComments lists the conversation comments of every issue and pull request
func (c *Collector) fetchIssueComments(ctx context.Context, owner, repo string, since time.Time) ([]*github.IssueComment, error) {
	var all []*github.IssueComment
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	if !since.IsZero() {
		opts.Since = &since
	}

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, 0, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// fetchReviewComments lists the line comments of every pull request
func (c *Collector) fetchReviewComments(ctx context.Context, owner, repo string, since time.Time) ([]*github.PullRequestComment, error) {
	var all []*github.PullRequestComment
	opts := &github.PullRequestListCommentsOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		comments, resp, err := c.client.PullRequests.ListComments(ctx, owner, repo, 0, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// fetchReviews lists the reviews of each pull request, keyed by pull request number
func (c *Collector) fetchReviews(ctx context.Context, owner, repo string, pulls []*github.PullRequest) (map[int][]*github.PullRequestReview, error) {
	results := make([][]*github.PullRequestReview, len(pulls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reviewWorkers)
	for i, pr := range pulls {
		g.Go(func() error {
			reviews, err := c.fetchPullRequestReviews(gctx, owner, repo, pr.GetNumber())
			if err != nil {
				return fmt.Errorf("pull request #%d: %w", pr.GetNumber(), err)
			}
			results[i] = reviews
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int][]*github.PullRequestReview, len(pulls))
	for i, pr := range pulls {
		out[pr.GetNumber()] = results[i]
	}
	return out, nil
}

func (c *Collector) fetchPullRequestReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, error) {
	var all []*github.PullRequestReview
	opts := &github.ListOptions{PerPage: perPage}

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		reviews, resp, err := c.client.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, reviews...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}
