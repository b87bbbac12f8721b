package returns

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appapproval "github.com/backoffice/backend/internal/application/approval"
	appinventory "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/returns"
	"github.com/backoffice/backend/internal/domain/shared"
)

// ReturnService drives purchase returns from draft to refund. Stock
// leaves through the disposition-typed movements when approval completes,
// money comes back through one of four channels on completion, and a
// completed return can be fully reversed by cancellation.
type ReturnService struct {
	scope          appinventory.TransactionScope
	returnRepo     returns.PurchaseReturnRepository
	purchaseRepo   procurement.PurchaseRepository
	workflowSvc    *appapproval.WorkflowService
	numberGen      shared.DocumentNumberGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReturnService creates a ReturnService
func NewReturnService(
	scope appinventory.TransactionScope,
	returnRepo returns.PurchaseReturnRepository,
	purchaseRepo procurement.PurchaseRepository,
	workflowSvc *appapproval.WorkflowService,
	numberGen shared.DocumentNumberGenerator,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		scope:          scope,
		returnRepo:     returnRepo,
		purchaseRepo:   purchaseRepo,
		workflowSvc:    workflowSvc,
		numberGen:      numberGen,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create builds a draft return. Per line the requested quantity must fit
// the returnable balance: what the purchase bought minus what every prior
// non-cancelled, non-rejected return already took back.
func (s *ReturnService) Create(ctx context.Context, tenantID uuid.UUID, req CreateReturnRequest) (*ReturnResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, req.PurchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.IsCancelled() {
		return nil, shared.NewStateConflict("purchase %s is cancelled and cannot be returned against", purchase.PurchaseNumber)
	}
	prior, err := s.returnRepo.FindByPurchase(ctx, tenantID, purchase.ID)
	if err != nil {
		return nil, err
	}

	returnNumber, err := s.numberGen.Next(ctx, tenantID, "PR")
	if err != nil {
		return nil, err
	}
	pr, err := returns.NewPurchaseReturn(tenantID, returnNumber, purchase.ID, purchase.SupplierID)
	if err != nil {
		return nil, err
	}
	pr.Notes = req.Notes

	for _, line := range req.Lines {
		var purchaseLine *procurement.PurchaseItem
		for idx := range purchase.Items {
			if purchase.Items[idx].ItemID == line.ItemID {
				purchaseLine = &purchase.Items[idx]
				break
			}
		}
		if purchaseLine == nil {
			return nil, shared.NewValidationError("item %s is not on purchase %s", line.ItemID, purchase.PurchaseNumber)
		}
		previouslyReturned := returnedSoFar(prior, line.ItemID)
		if err := returns.ValidateReturnQty(purchaseLine.SKU, purchaseLine.Quantity, previouslyReturned, line.Quantity); err != nil {
			return nil, err
		}
		if err := pr.AddItem(line.ItemID, purchaseLine.SKU, line.Quantity, purchaseLine.Rate,
			returns.ItemCondition(line.Condition), line.Disposition, line.Reason); err != nil {
			return nil, err
		}
	}

	if err := s.returnRepo.Save(ctx, pr); err != nil {
		return nil, err
	}
	s.logger.Info("purchase return created",
		zap.String("return_number", pr.ReturnNumber),
		zap.String("total", pr.TotalAmount.String()))
	resp := ToReturnResponse(pr)
	return &resp, nil
}

// Submit sends a draft into approval. Amounts below the first threshold
// auto-approve: the stock and payable effects apply immediately with no
// workflow. Larger amounts start an approval chain sized by the policy.
func (s *ReturnService) Submit(ctx context.Context, tenantID, returnID uuid.UUID, req SubmitReturnRequest) (*ReturnResponse, error) {
	var pr *returns.PurchaseReturn
	autoApprove := false
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		pr, err = repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		autoApprove = pr.TotalAmount.LessThanOrEqual(s.workflowSvc.Policy().LevelTwoAbove)
		if !autoApprove {
			// fail before touching state so a short approver list
			// cannot strand the return in pending approval
			if required := s.workflowSvc.Policy().RequiredLevels(pr.TotalAmount); len(req.ApproverIDs) < required {
				return shared.NewValidationError(
					"amount %s requires %d approval levels, only %d approvers given",
					pr.TotalAmount.String(), required, len(req.ApproverIDs))
			}
		}
		if err := pr.Submit(); err != nil {
			return err
		}
		if autoApprove {
			if err := s.applyApprovalEffects(ctx, repos, tenantID, pr); err != nil {
				return err
			}
		}
		return repos.Returns().SaveWithLock(ctx, pr)
	})
	if err != nil {
		return nil, err
	}

	if !autoApprove {
		if _, err := s.workflowSvc.Start(ctx, tenantID, appapproval.StartRequest{
			EntityType: approval.EntityPurchaseReturn,
			EntityID:   pr.ID,
			Amount:     pr.TotalAmount,
			Approvers:  req.ApproverIDs,
		}); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, &pr.BaseAggregateRoot)
	s.logger.Info("purchase return submitted",
		zap.String("return_number", pr.ReturnNumber),
		zap.Bool("auto_approved", autoApprove))
	resp := ToReturnResponse(pr)
	return &resp, nil
}

// HandleApproved applies the approval outcome: disposition-typed stock
// movements per line and the supplier payable reduction, atomically
func (s *ReturnService) HandleApproved(ctx context.Context, tenantID, returnID uuid.UUID) error {
	var pr *returns.PurchaseReturn
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		pr, err = repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		if err := s.applyApprovalEffects(ctx, repos, tenantID, pr); err != nil {
			return err
		}
		return repos.Returns().SaveWithLock(ctx, pr)
	})
	if err != nil {
		return err
	}
	s.publishEvents(ctx, &pr.BaseAggregateRoot)
	s.logger.Info("purchase return approved",
		zap.String("return_number", pr.ReturnNumber))
	return nil
}

// HandleRejected terminates the return with no stock or money effects
func (s *ReturnService) HandleRejected(ctx context.Context, tenantID, returnID uuid.UUID, reason string) error {
	pr, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return err
	}
	if err := pr.MarkRejected(reason); err != nil {
		return err
	}
	if err := s.returnRepo.SaveWithLock(ctx, pr); err != nil {
		return err
	}
	s.publishEvents(ctx, &pr.BaseAggregateRoot)
	return nil
}

// applyApprovalEffects marks the return approved, posts the per-line
// disposition movements and reduces the supplier payable. Runs inside the
// caller's transaction.
func (s *ReturnService) applyApprovalEffects(ctx context.Context, repos appinventory.TransactionalRepositories, tenantID uuid.UUID, pr *returns.PurchaseReturn) error {
	if err := pr.MarkApproved(); err != nil {
		return err
	}
	for _, line := range pr.Items {
		item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
		if err != nil {
			return err
		}
		movement, err := item.ReturnOut(line.ReturnQty, line.Disposition, inventory.MovementSource{
			Type: inventory.SourcePurchaseReturn,
			ID:   pr.ID,
		})
		if err != nil {
			return err
		}
		if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		if err := repos.Movements().Append(ctx, movement); err != nil {
			return err
		}
	}
	supplier, err := repos.Suppliers().FindByIDForTenant(ctx, tenantID, pr.SupplierID)
	if err != nil {
		return err
	}
	if err := supplier.ReducePayable(pr.TotalAmount, "purchase return "+pr.ReturnNumber); err != nil {
		return err
	}
	return repos.Suppliers().SaveWithLock(ctx, supplier)
}

// Complete settles an approved return through exactly one refund channel.
// Bank transfers fail closed when no usable bank account is given; the
// adjust-payable channel moves no money because the payable already
// shrank at approval.
func (s *ReturnService) Complete(ctx context.Context, tenantID, returnID uuid.UUID, req CompleteReturnRequest) (*RefundResponse, error) {
	var noteNumber string
	if req.Mode == returns.RefundModeCreditNote {
		var err error
		noteNumber, err = s.numberGen.Next(ctx, tenantID, "CN")
		if err != nil {
			return nil, err
		}
	}

	var pr *returns.PurchaseReturn
	var refund *returns.RefundTransaction
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		pr, err = repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}

		// resolve the refund channel before touching the return, so a
		// missing dependency leaves the return untouched and retryable
		var account *partner.BankAccount
		if req.Mode == returns.RefundModeBankTransfer {
			if req.BankAccountID == nil {
				return shared.NewDomainErrorf(shared.CodeDependencyUnavailable,
					"bank transfer refund requires a bank account")
			}
			account, err = repos.BankAccounts().FindByIDForTenant(ctx, tenantID, *req.BankAccountID)
			if err != nil {
				return shared.NewDomainErrorf(shared.CodeDependencyUnavailable,
					"bank account %s is not available", *req.BankAccountID)
			}
		}

		if err := pr.Complete(req.Mode); err != nil {
			return err
		}
		refund, err = returns.NewRefundTransaction(tenantID, pr.ID, req.Mode, pr.TotalAmount)
		if err != nil {
			return err
		}

		switch req.Mode {
		case returns.RefundModeCash:
			if err := repos.CashBank().Append(ctx, partner.NewCashBankTransaction(
				tenantID, partner.CashFlowOut, pr.TotalAmount, "cash", "purchase_return", pr.ID)); err != nil {
				return err
			}
			if err := refund.MarkCompleted("cash refund"); err != nil {
				return err
			}

		case returns.RefundModeBankTransfer:
			if err := account.Debit(pr.TotalAmount); err != nil {
				return err
			}
			if err := repos.BankAccounts().SaveWithLock(ctx, account); err != nil {
				return err
			}
			tx := partner.NewCashBankTransaction(
				tenantID, partner.CashFlowOut, pr.TotalAmount, "bank_transfer", "purchase_return", pr.ID)
			tx.BankAccountID = &account.ID
			if err := repos.CashBank().Append(ctx, tx); err != nil {
				return err
			}
			refund.BankAccountID = &account.ID
			if err := refund.MarkCompleted("transfer from " + account.Name); err != nil {
				return err
			}

		case returns.RefundModeCreditNote:
			note, err := partner.NewSupplierCreditNote(tenantID, noteNumber, pr.SupplierID, pr.ID, pr.TotalAmount)
			if err != nil {
				return err
			}
			if err := repos.CreditNotes().Save(ctx, note); err != nil {
				return err
			}
			refund.CreditNoteID = &note.ID
			if err := refund.MarkCompleted(note.NoteNumber); err != nil {
				return err
			}

		case returns.RefundModeAdjustPayable:
			if err := refund.MarkCompleted("payable adjusted at approval"); err != nil {
				return err
			}
		}

		if err := repos.Refunds().Save(ctx, refund); err != nil {
			return err
		}
		return repos.Returns().SaveWithLock(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &pr.BaseAggregateRoot)
	s.logger.Info("purchase return completed",
		zap.String("return_number", pr.ReturnNumber),
		zap.String("refund_mode", string(req.Mode)),
		zap.String("amount", pr.TotalAmount.String()))
	resp := ToRefundResponse(refund)
	return &resp, nil
}

// Cancel terminates the return. Once approval effects have applied, the
// exact inverse runs: stock comes back per line and the supplier payable
// grows again. A completed return additionally marks its refund reversed
// and appends the compensating negated entry; money already disbursed
// through cash or bank is not clawed back automatically, the reversed
// rows exist for reconciliation. An unexhausted credit note is voided.
func (s *ReturnService) Cancel(ctx context.Context, tenantID, returnID uuid.UUID) error {
	var pr *returns.PurchaseReturn
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		pr, err = repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		priorStatus := pr.Status
		wasCompleted, err := pr.Cancel()
		if err != nil {
			return err
		}

		if priorStatus == returns.ReturnStatusPendingApproval {
			if wf, err := repos.Workflows().FindByEntity(ctx, tenantID, approval.EntityPurchaseReturn, pr.ID); err == nil && wf != nil && !wf.Status.IsTerminal() {
				if err := wf.Cancel(); err != nil {
					return err
				}
				if err := repos.Workflows().SaveWithLock(ctx, wf); err != nil {
					return err
				}
			}
		}

		effectsApplied := priorStatus == returns.ReturnStatusApproved || wasCompleted
		if effectsApplied {
			for _, line := range pr.Items {
				item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
				if err != nil {
					return err
				}
				movement, err := item.RestoreFromReturn(line.ReturnQty, inventory.MovementSource{
					Type:  inventory.SourcePurchaseReturn,
					ID:    pr.ID,
					Notes: "return " + pr.ReturnNumber + " cancelled",
				})
				if err != nil {
					return err
				}
				if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
					return err
				}
				if err := repos.Movements().Append(ctx, movement); err != nil {
					return err
				}
			}
			supplier, err := repos.Suppliers().FindByIDForTenant(ctx, tenantID, pr.SupplierID)
			if err != nil {
				return err
			}
			if err := supplier.AddPayable(pr.TotalAmount, "return "+pr.ReturnNumber+" cancelled"); err != nil {
				return err
			}
			if err := repos.Suppliers().SaveWithLock(ctx, supplier); err != nil {
				return err
			}
		}

		if wasCompleted {
			refunds, err := repos.Refunds().FindByReturn(ctx, tenantID, pr.ID)
			if err != nil {
				return err
			}
			for idx := range refunds {
				refund := &refunds[idx]
				if refund.Status != returns.RefundStatusCompleted || refund.ReversalOfID != nil {
					continue
				}
				if err := refund.MarkReversed(); err != nil {
					return err
				}
				if err := repos.Refunds().Save(ctx, refund); err != nil {
					return err
				}
				if err := repos.Refunds().Save(ctx, returns.NewReversalEntry(refund)); err != nil {
					return err
				}
				if refund.CreditNoteID != nil {
					note, err := repos.CreditNotes().FindByIDForTenant(ctx, tenantID, *refund.CreditNoteID)
					if err != nil {
						return err
					}
					if err := note.Void(); err != nil {
						return err
					}
					if err := repos.CreditNotes().Save(ctx, note); err != nil {
						return err
					}
				}
			}
		}

		return repos.Returns().SaveWithLock(ctx, pr)
	})
	if err != nil {
		return err
	}
	s.publishEvents(ctx, &pr.BaseAggregateRoot)
	s.logger.Info("purchase return cancelled",
		zap.String("return_number", pr.ReturnNumber))
	return nil
}

// GetByID returns a purchase return
func (s *ReturnService) GetByID(ctx context.Context, tenantID, returnID uuid.UUID) (*ReturnResponse, error) {
	pr, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}
	resp := ToReturnResponse(pr)
	return &resp, nil
}

// List returns purchase returns for a tenant
func (s *ReturnService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReturnResponse, error) {
	items, err := s.returnRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ReturnResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToReturnResponse(&items[idx]))
	}
	return responses, nil
}

// returnedSoFar sums what earlier returns in a counting status already
// took back for an item
func returnedSoFar(prior []returns.PurchaseReturn, itemID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for idx := range prior {
		if !prior[idx].Status.CountsAgainstReturnable() {
			continue
		}
		total = total.Add(prior[idx].ReturnedQty(itemID))
	}
	return total
}

func (s *ReturnService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish purchase return events", zap.Error(err))
	}
	root.ClearDomainEvents()
}
