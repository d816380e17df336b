package cmd

import (
	"github.com/modelbay/templatrend/core"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/iostore"
	"github.com/modelbay/templatrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// actorFromFlags builds the workflow actor from the bound flag values.
func actorFromFlags(idKey string) schema.Actor {
	return schema.Actor{
		ID:   viper.GetString(idKey),
		Role: schema.ActorRole(viper.GetString("actor-role")),
	}
}

// promoteCmd groups the promotion workflow subcommands.
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Manage the personal-to-verified promotion workflow",
	Long: `Manage promotion requests that move personal templates into the
verified catalog.

The workflow is moderated: a request starts as pending, a reviewer can
approve, reject or request changes, and an approved request is finalized
with implement once the verified template exists. Implementing a request
issues an author credit when credit-to-author is set.

Subcommands:
  create    - Open a promotion request for a personal template
  review    - Apply a reviewer decision to a request
  implement - Finalize an approved request
  list      - Show the promotion queue

Examples:
  # Open a request
  templatrend promote create tmpl-a1b2c3 --actor-id admin-1 --actor-role admin --reason "High demand"

  # Approve it
  templatrend promote review req-d4e5f6 --action approve --reviewer-id admin-2 --actor-role admin --comments "Meets the bar"

  # Finalize after the verified template is created
  templatrend promote implement req-d4e5f6 --verified-template-id tmpl-v7g8h9 --actor-id admin-2 --actor-role admin`,
}

// promoteCreateCmd opens a promotion request.
var promoteCreateCmd = &cobra.Command{
	Use:   "create <personal-template-id>",
	Short: "Open a promotion request for a personal template",
	Long: `Create a promotion request for a personal template.

The template must exist, be active and public, and pass the eligibility
gate (minimum lifetime usage, unique users and success rate). Its current
metrics are frozen into the request and scored for reviewer context. Only
admins may create requests, and a template can hold at most one active
request at a time.

Examples:
  # Open a request with default medium priority
  templatrend promote create tmpl-a1b2c3 --actor-id admin-1 --actor-role admin --reason "Widely used"

  # Urgent request, skipping the author credit
  templatrend promote create tmpl-a1b2c3 --actor-id admin-1 --actor-role admin --priority urgent --credit-to-author=false`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := withTimeout()
		defer cancel()
		promoInput := schema.PromotionInput{
			PersonalTemplateID: args[0],
			Actor:              actorFromFlags("actor-id"),
			Reason:             viper.GetString("reason"),
			Justification:      viper.GetString("justification"),
			Priority:           schema.Priority(viper.GetString("priority")),
			CreditToAuthor:     viper.GetBool("credit-to-author"),
		}
		if err := core.ExecutePromoteCreate(ctx, cfg, iostore.Manager, promoInput); err != nil {
			contract.LogFatal("Cannot create promotion request", err)
		}
	},
}

// promoteReviewCmd applies a reviewer decision.
var promoteReviewCmd = &cobra.Command{
	Use:   "review <request-id>",
	Short: "Apply a reviewer decision to a promotion request",
	Long: `Review a pending or under-review promotion request.

Actions:
  approve         - Move the request to approved
  reject          - Move the request to rejected
  request_changes - Keep the request in under_review

Comments are mandatory for every action. Only admins may review, and the
decision is applied atomically so concurrent reviewers cannot both win.

Examples:
  templatrend promote review req-d4e5f6 --action approve --reviewer-id admin-2 --actor-role admin --comments "Meets the bar"
  templatrend promote review req-d4e5f6 --action reject --reviewer-id admin-2 --actor-role admin --comments "Too niche"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := withTimeout()
		defer cancel()
		action := schema.ReviewAction(viper.GetString("action"))
		reviewer := actorFromFlags("reviewer-id")
		comments := viper.GetString("comments")
		if err := core.ExecutePromoteReview(ctx, cfg, iostore.Manager, args[0], action, reviewer, comments); err != nil {
			contract.LogFatal("Cannot review promotion request", err)
		}
	},
}

// promoteImplementCmd finalizes an approved request.
var promoteImplementCmd = &cobra.Command{
	Use:   "implement <request-id>",
	Short: "Finalize an approved promotion request",
	Long: `Mark an approved promotion request as implemented.

Run this after the verified template has been created from the personal
template. The request must be in approved status. When the request was
opened with credit-to-author, an author credit is issued to the original
author as part of implementation.

Examples:
  templatrend promote implement req-d4e5f6 --verified-template-id tmpl-v7g8h9 --actor-id admin-2 --actor-role admin --notes "Shipped in catalog v42"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := withTimeout()
		defer cancel()
		verifiedTemplateID := viper.GetString("verified-template-id")
		notes := viper.GetString("notes")
		actor := actorFromFlags("actor-id")
		if err := core.ExecutePromoteImplement(ctx, cfg, iostore.Manager, args[0], verifiedTemplateID, notes, actor); err != nil {
			contract.LogFatal("Cannot implement promotion request", err)
		}
	},
}

// promoteListCmd shows the promotion queue.
var promoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the promotion request queue",
	Long: `List promotion requests awaiting a decision, oldest first.

With --high-priority, only high and urgent requests are shown, urgent
before high.

Examples:
  templatrend promote list
  templatrend promote list --high-priority --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := withTimeout()
		defer cancel()
		highPriority := viper.GetBool("high-priority")
		if err := core.ExecutePromoteList(ctx, cfg, iostore.Manager, highPriority); err != nil {
			contract.LogFatal("Cannot list promotion requests", err)
		}
	},
}
