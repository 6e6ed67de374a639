package services

import (
	"fmt"
	"log"
	"time"

	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/utils"

	"gorm.io/gorm"
)

// ReconcileGroup applies the real-world effect of approved proposals: an
// approved invite adds the member, an approved fund request releases the
// amount as a withdrawal transaction. The pass is idempotent — settled
// proposals are skipped via settled_at, an invite whose target already
// joined settles as a no-op, and a fund request the balance cannot cover is
// left unsettled for a later pass. Runs in one DB transaction per group;
// notifications go out only after it commits.
func ReconcileGroup(groupID uint) error {
	var settled []models.Proposal

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Preload("Members").First(&group, groupID).Error; err != nil {
			return err
		}

		var proposals []models.Proposal
		if err := tx.Preload("Votes").
			Where("group_id = ? AND settled_at IS NULL", groupID).
			Order("id ASC").
			Find(&proposals).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range proposals {
			p := &proposals[i]
			if !IsApproved(p) {
				continue
			}

			switch p.Kind {
			case models.ProposalInvite:
				if err := settleInvite(tx, &group, p); err != nil {
					return err
				}
			case models.ProposalFundRequest:
				ok, err := settleFundRequest(tx, &group, p)
				if err != nil {
					return err
				}
				if !ok {
					continue // insufficient balance, retry on a later pass
				}
			default:
				continue
			}

			if err := tx.Model(p).Update("settled_at", now).Error; err != nil {
				return err
			}
			p.SettledAt = &now
			settled = append(settled, *p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range settled {
		go GetNotificationService().NotifyProposalSettled(p)
	}
	return nil
}

func settleInvite(tx *gorm.DB, group *models.Group, p *models.Proposal) error {
	if group.HasMember(p.TargetWallet) {
		return nil
	}

	display := utils.ShortAddress(p.TargetWallet)
	initials := utils.InitialsFromAddress(p.TargetWallet)

	// use the profile name when the invited wallet is already registered
	var user models.User
	if err := tx.Where("wallet = ?", p.TargetWallet).First(&user).Error; err == nil && user.Name != "" {
		display = user.Name
		initials = utils.InitialsFromName(user.Name)
	}

	member := models.GroupMember{
		GroupID:     group.ID,
		Wallet:      p.TargetWallet,
		DisplayName: display,
		Initials:    initials,
	}
	if err := tx.Create(&member).Error; err != nil {
		return err
	}
	group.Members = append(group.Members, member)

	log.Printf("✅ Invite settled: %s joined group %d", p.TargetWallet, group.ID)

	return tx.Create(&models.Activity{
		GroupID:     group.ID,
		Wallet:      p.TargetWallet,
		Type:        "member_joined",
		ReferenceID: p.ID,
		Description: fmt.Sprintf("%s joined %s", display, group.Name),
	}).Error
}

func settleFundRequest(tx *gorm.DB, group *models.Group, p *models.Proposal) (bool, error) {
	if group.Balance < p.Amount {
		log.Printf("⚠️  Fund request %d approved but balance %.4f < %.4f, deferring", p.ID, group.Balance, p.Amount)
		return false, nil
	}

	entry := models.Transaction{
		GroupID:     group.ID,
		Type:        models.TxWithdrawal,
		Amount:      -p.Amount,
		Member:      utils.ShortAddress(p.InitiatedBy),
		Description: fmt.Sprintf("Approved request - %s", p.Purpose),
		ProposalID:  &p.ID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return false, err
	}

	group.Balance -= p.Amount
	if err := tx.Model(group).Update("balance", group.Balance).Error; err != nil {
		return false, err
	}

	log.Printf("✅ Fund request settled: %.4f ETH released from group %d to %s", p.Amount, group.ID, p.Destination)

	err := tx.Create(&models.Activity{
		GroupID:     group.ID,
		Wallet:      p.InitiatedBy,
		Type:        "funds_released",
		ReferenceID: p.ID,
		Description: fmt.Sprintf("%.4f ETH released for \"%s\"", p.Amount, p.Purpose),
	}).Error
	return err == nil, err
}
