package services

import (
	"errors"
	"testing"
	"time"

	"invoicing-backend/models"
)

func newTestServices() (*memStores, *BusinessService, *InvitationService, *InvoiceService, *Authorization) {
	m := newMemStores()
	auth := &Authorization{
		Members:     memMembers{m},
		Roles:       memRoles{m},
		Permissions: memPermissions{m},
	}
	businesses := &BusinessService{
		Businesses: memBusinesses{m},
		Members:    memMembers{m},
		Auth:       auth,
	}
	invitations := &InvitationService{
		Invitations: memInvitations{m},
		Members:     memMembers{m},
		Users:       memUsers{m},
		Roles:       memRoles{m},
	}
	invoices := &InvoiceService{
		Invoices:   memInvoices{m},
		Businesses: memBusinesses{m},
	}
	return m, businesses, invitations, invoices, auth
}

func TestCreateBusinessProvisionsOwner(t *testing.T) {
	m, businesses, _, _, auth := newTestServices()
	owner := m.addUser("owner@acme.test")

	business, err := businesses.Create("Acme", owner.Id, "US")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// The owner is always authorized with the full catalog right away.
	grant, err := auth.Resolve(owner.Id, business.Id)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(grant.Roles) != 1 || grant.Roles[0] != models.OwnerRoleName {
		t.Fatalf("roles = %v", grant.Roles)
	}
	if len(grant.Permissions) != len(models.PermissionCatalog) {
		t.Fatalf("permissions = %d, want the full catalog (%d)", len(grant.Permissions), len(models.PermissionCatalog))
	}

	facts := businesses.Facts()
	if len(facts) != 1 || facts[0].Name != "business.created" {
		t.Fatalf("facts = %+v", facts)
	}
}

func TestOwnerRoleProvisioningIsIdempotent(t *testing.T) {
	m, businesses, _, _, _ := newTestServices()
	owner := m.addUser("owner@acme.test")
	other := m.addUser("other@acme.test")

	if _, err := businesses.Create("Acme", owner.Id, "US"); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := businesses.Create("Globex", other.Id, "US"); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	count := 0
	for _, role := range m.roles {
		if role.Name == models.OwnerRoleName {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("owner roles = %d, want 1", count)
	}
}

func TestResolveWithoutMembershipIsEmpty(t *testing.T) {
	m, businesses, _, _, auth := newTestServices()
	owner := m.addUser("owner@acme.test")
	stranger := m.addUser("stranger@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")

	grant, err := auth.Resolve(stranger.Id, business.Id)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(grant.Roles) != 0 || len(grant.Permissions) != 0 {
		t.Fatalf("stranger has authority: %+v", grant)
	}
}

func TestBusinessNameCountryUniqueness(t *testing.T) {
	m, businesses, _, _, _ := newTestServices()
	owner := m.addUser("owner@acme.test")

	first, err := businesses.Create("Acme", owner.Id, "US")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := businesses.Create("Acme", owner.Id, "US"); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("duplicate pair: got %v", err)
	}
	// Same name, different country is fine.
	if _, err := businesses.Create("Acme", owner.Id, "DE"); err != nil {
		t.Fatalf("different country: %v", err)
	}

	// Soft-deleting the first releases the pair.
	if _, err := businesses.Delete(first.Id); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := businesses.Create("Acme", owner.Id, "US"); err != nil {
		t.Fatalf("create after soft delete: %v", err)
	}
}

func TestBusinessRestoreGuard(t *testing.T) {
	m, businesses, _, _, _ := newTestServices()
	owner := m.addUser("owner@acme.test")

	first, _ := businesses.Create("Acme", owner.Id, "US")
	if _, err := businesses.Restore(first.Id); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("restore of live business: got %v", err)
	}

	businesses.Delete(first.Id)
	second, _ := businesses.Create("Acme", owner.Id, "US")

	// The pair is taken again, restore must refuse.
	if _, err := businesses.Restore(first.Id); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("restore with collision: got %v", err)
	}

	businesses.Delete(second.Id)
	restored, err := businesses.Restore(first.Id)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if restored.IsDeleted || restored.DeletedAt != nil || !restored.IsActive {
		t.Fatalf("restore state: %+v", restored)
	}
}

func TestInvitationAcceptCreatesMember(t *testing.T) {
	m, businesses, invitations, _, auth := newTestServices()
	owner := m.addUser("owner@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")
	ownerRole, _ := auth.EnsureOwnerRole()

	invitee := m.addUser("dev@acme.test")
	invitation, err := invitations.Create(business.Id, "dev@acme.test", ownerRole.Id, 72)
	if err != nil {
		t.Fatalf("Create invitation error: %v", err)
	}
	if invitation.Status != models.InvitationPending {
		t.Fatalf("status = %s", invitation.Status)
	}

	member, err := invitations.Accept(invitation.Token)
	if err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if member.UserId != invitee.Id || member.BusinessId != business.Id {
		t.Fatalf("member = %+v", member)
	}

	grant, err := auth.Resolve(invitee.Id, business.Id)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(grant.Permissions) == 0 {
		t.Fatal("accepted invitee has no authority")
	}

	// Single use: the token cannot be consumed twice.
	if _, err := invitations.Accept(invitation.Token); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("second Accept: got %v", err)
	}
}

func TestInvitationRequiresRegisteredUser(t *testing.T) {
	m, businesses, invitations, _, auth := newTestServices()
	owner := m.addUser("owner@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")
	ownerRole, _ := auth.EnsureOwnerRole()

	invitation, err := invitations.Create(business.Id, "ghost@acme.test", ownerRole.Id, 72)
	if err != nil {
		t.Fatalf("Create invitation error: %v", err)
	}
	if _, err := invitations.Accept(invitation.Token); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("accept without account: got %v", err)
	}
	// The failed accept consumed nothing.
	stored, _ := invitations.Invitations.FindByToken(invitation.Token)
	if stored.Status != models.InvitationPending {
		t.Fatalf("failed accept changed status to %s", stored.Status)
	}
}

func TestInvitationRejectsCurrentMember(t *testing.T) {
	m, businesses, invitations, _, auth := newTestServices()
	owner := m.addUser("owner@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")
	ownerRole, _ := auth.EnsureOwnerRole()

	if _, err := invitations.Create(business.Id, "OWNER@acme.test", ownerRole.Id, 72); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("inviting a member: got %v", err)
	}
}

func TestInvitationSweep(t *testing.T) {
	m, businesses, invitations, _, auth := newTestServices()
	owner := m.addUser("owner@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")
	ownerRole, _ := auth.EnsureOwnerRole()
	m.addUser("late@acme.test")

	invitation, err := invitations.Create(business.Id, "late@acme.test", ownerRole.Id, 1)
	if err != nil {
		t.Fatalf("Create invitation error: %v", err)
	}

	// Nothing due yet.
	expired, err := invitations.ExpirePending(time.Now().UTC())
	if err != nil {
		t.Fatalf("ExpirePending error: %v", err)
	}
	if expired != 0 {
		t.Fatalf("expired = %d, want 0", expired)
	}

	expired, err = invitations.ExpirePending(time.Now().UTC().Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("ExpirePending error: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}

	if _, err := invitations.Accept(invitation.Token); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("accept of swept invitation: got %v", err)
	}
}

func TestInvoiceEndToEnd(t *testing.T) {
	m, businesses, _, invoices, _ := newTestServices()
	owner := m.addUser("owner@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")

	invoice, err := invoices.Create(business.Id, "client-1", "INV-001", "USD")
	if err != nil {
		t.Fatalf("Create invoice error: %v", err)
	}

	invoice, err = invoices.AddItem(invoice.Id, business.Id, "Consulting", 2, 100, "h")
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if invoice.SubTotal != 200 || invoice.Tax != 20 || invoice.Total != 220 {
		t.Fatalf("totals: sub=%v tax=%v total=%v", invoice.SubTotal, invoice.Tax, invoice.Total)
	}

	if _, err := invoices.Send(invoice.Id, business.Id); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	invoice, err = invoices.ApplyPayment(invoice.Id, business.Id, 220, "cash", "")
	if err != nil {
		t.Fatalf("ApplyPayment error: %v", err)
	}
	if invoice.Status != models.InvoicePaid || invoice.AmountPaid != 220 {
		t.Fatalf("after payment: status=%s paid=%v", invoice.Status, invoice.AmountPaid)
	}

	facts := invoices.Facts()
	var names []string
	for _, fact := range facts {
		names = append(names, fact.Name)
	}
	want := map[string]bool{"invoice.sent": false, "invoice.payment_recorded": false, "invoice.paid": false}
	for _, name := range names {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing fact %s in %v", name, names)
		}
	}
}

func TestInvoiceCreateGuards(t *testing.T) {
	m, businesses, _, invoices, _ := newTestServices()
	owner := m.addUser("owner@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")

	if _, err := invoices.Create(business.Id, "client-1", "INV-001", "USD"); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := invoices.Create(business.Id, "client-2", "INV-001", "USD"); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("duplicate number: got %v", err)
	}

	businesses.SetActive(business.Id, false)
	if _, err := invoices.Create(business.Id, "client-1", "INV-002", "USD"); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("inactive business: got %v", err)
	}

	if _, err := invoices.Create("missing", "client-1", "INV-003", "USD"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unknown business: got %v", err)
	}
}

func TestAnnotateTransaction(t *testing.T) {
	m, businesses, _, invoices, _ := newTestServices()
	owner := m.addUser("owner@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")

	invoice, _ := invoices.Create(business.Id, "client-1", "INV-001", "USD")
	invoices.AddItem(invoice.Id, business.Id, "Consulting", 1, 100, "")
	invoices.Send(invoice.Id, business.Id)
	invoice, err := invoices.ApplyPayment(invoice.Id, business.Id, 50, "cash", "")
	if err != nil {
		t.Fatalf("ApplyPayment error: %v", err)
	}
	transactionId := invoice.Transactions[0].Id

	transaction, err := invoices.AnnotateTransaction(invoice.Id, business.Id, transactionId, "partial payment")
	if err != nil {
		t.Fatalf("AnnotateTransaction error: %v", err)
	}
	if transaction.Notes != "partial payment" {
		t.Fatalf("notes = %q", transaction.Notes)
	}

	if _, err := invoices.AnnotateTransaction(invoice.Id, business.Id, "missing", "x"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unknown transaction: got %v", err)
	}
}

func TestTeamManagement(t *testing.T) {
	m, businesses, _, _, auth := newTestServices()
	owner := m.addUser("owner@acme.test")
	dev := m.addUser("dev@acme.test")
	business, _ := businesses.Create("Acme", owner.Id, "US")
	ownerRole, _ := auth.EnsureOwnerRole()

	member, err := businesses.AddMember(business.Id, dev.Id, ownerRole.Id)
	if err != nil {
		t.Fatalf("AddMember error: %v", err)
	}
	if member.RoleId != ownerRole.Id {
		t.Fatalf("member role = %s", member.RoleId)
	}
	if _, err := businesses.AddMember(business.Id, dev.Id, ownerRole.Id); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("duplicate membership: got %v", err)
	}

	limited := &models.Role{Name: "Billing", Description: "Invoices only"}
	for _, permission := range m.permissions {
		if permission.Name == "invoice:create" || permission.Name == "invoice:manage" {
			limited.Grant(permission)
		}
	}
	if err := (memRoles{m}).Create(limited); err != nil {
		t.Fatalf("role create error: %v", err)
	}

	if _, err := businesses.UpdateMemberRole(business.Id, dev.Id, limited.Id); err != nil {
		t.Fatalf("UpdateMemberRole error: %v", err)
	}
	grant, _ := auth.Resolve(dev.Id, business.Id)
	if len(grant.Roles) != 1 || grant.Roles[0] != "Billing" {
		t.Fatalf("roles after reassignment: %v", grant.Roles)
	}
	if len(grant.Permissions) != 2 {
		t.Fatalf("permissions after reassignment: %v", grant.Permissions)
	}

	if err := businesses.RemoveMember(business.Id, dev.Id); err != nil {
		t.Fatalf("RemoveMember error: %v", err)
	}
	grant, _ = auth.Resolve(dev.Id, business.Id)
	if len(grant.Permissions) != 0 {
		t.Fatalf("removed member still has authority: %v", grant.Permissions)
	}
}
