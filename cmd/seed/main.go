package main

import (
	"fmt"
	"log"
	"time"

	"pipecrm/internal/config"
	"pipecrm/internal/database"
	"pipecrm/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM lead_activities")
	db.Exec("DELETE FROM stage_histories")
	db.Exec("DELETE FROM quote_items")
	db.Exec("DELETE FROM client_machines")
	db.Exec("DELETE FROM deals")
	db.Exec("DELETE FROM pipeline_stages")
	db.Exec("DELETE FROM pipelines")
	db.Exec("DELETE FROM leads")
	db.Exec("DELETE FROM machine_models")
	db.Exec("DELETE FROM machine_brands")
	db.Exec("DELETE FROM sale_performance_reasons")
	db.Exec("DELETE FROM loss_reasons")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@pipecrm.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Administrator",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@pipecrm.local / admin123")

	sellers := []domain.User{}
	for i, email := range []string{"marina@pipecrm.local", "carlos@pipecrm.local"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("seller123"), bcrypt.DefaultCost)
		seller := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleSeller,
			Name:         fmt.Sprintf("Seller %d", i+1),
		}
		db.Create(&seller)
		sellers = append(sellers, seller)
	}
	_ = sellers

	// ================== DEFAULT PIPELINE ==================
	log.Println("Creating default pipeline...")

	pipeline := domain.Pipeline{
		Name:        "Sales",
		Description: "Default sales funnel",
		IsDefault:   true,
	}
	db.Create(&pipeline)

	stageSpecs := []struct {
		Name      string
		Order     int
		Type      domain.StageType
		IsDefault bool
		IsSystem  bool
		IsHidden  bool
	}{
		{Name: "Intake", Order: 1, Type: domain.StageTypeNormal, IsDefault: true},
		{Name: "Qualification", Order: 2, Type: domain.StageTypeNormal},
		{Name: "Proposal", Order: 3, Type: domain.StageTypeNormal},
		{Name: "Negotiation", Order: 4, Type: domain.StageTypeNormal},
		{Name: "Completed", Order: 98, Type: domain.StageTypeCompleted, IsSystem: true, IsHidden: true},
		{Name: "Lost", Order: 99, Type: domain.StageTypeLost, IsSystem: true, IsHidden: true},
	}

	stages := make([]domain.PipelineStage, 0, len(stageSpecs))
	for _, spec := range stageSpecs {
		stage := domain.PipelineStage{
			PipelineID: pipeline.ID,
			Name:       spec.Name,
			Order:      spec.Order,
			StageType:  spec.Type,
			IsDefault:  spec.IsDefault,
			IsSystem:   spec.IsSystem,
			IsHidden:   spec.IsHidden,
		}
		db.Create(&stage)
		stages = append(stages, stage)
	}

	// ================== REGISTRIES ==================
	log.Println("Creating registries...")

	for _, name := range []string{"Price too high", "Went with competitor", "No budget", "Lost contact"} {
		db.Create(&domain.LossReason{Name: name, Active: true})
	}
	for _, name := range []string{"Discount granted", "Sold at list price", "Upsold accessories"} {
		db.Create(&domain.SalePerformanceReason{Name: name, Active: true})
	}

	brands := map[string][]string{
		"AgriMax":   {"AM-200", "AM-350", "AM-500"},
		"TerraWork": {"TW Compact", "TW Pro"},
	}
	for brandName, models := range brands {
		brand := domain.MachineBrand{Name: brandName, Active: true}
		db.Create(&brand)
		for _, modelName := range models {
			db.Create(&domain.MachineModel{BrandID: brand.ID, Name: modelName, Active: true})
		}
	}

	// ================== LEADS ==================
	log.Println("Creating leads...")

	leads := []domain.Lead{
		{
			Name:       "Joao Almeida",
			Category:   domain.CategoryFinalConsumer,
			PersonType: domain.PersonTypeIndividual,
			CPFCNPJ:    "52998224725",
			Email:      "joao@example.com",
			Phone:      "+55 11 91234-0001",
			City:       "Campinas",
			State:      "SP",
		},
		{
			Name:        "Fazenda Boa Vista",
			CompanyName: "Boa Vista Agro Ltda",
			Category:    domain.CategoryReseller,
			PersonType:  domain.PersonTypeCompany,
			CPFCNPJ:     "11222333000181",
			Email:       "compras@boavista.example.com",
			Phone:       "+55 19 3322-0002",
			City:        "Ribeirao Preto",
			State:       "SP",
		},
		{
			Name:       "Maria Souza",
			Category:   domain.CategoryFinalConsumer,
			PersonType: domain.PersonTypeIndividual,
			Email:      "maria@example.com",
			Phone:      "+55 11 91234-0003",
			City:       "Sorocaba",
			State:      "SP",
		},
	}
	for i := range leads {
		db.Create(&leads[i])
	}

	// ================== DEALS ==================
	log.Println("Creating deals...")

	entry := stages[0]
	negotiationStage := stages[3]
	now := time.Now().UTC()

	for i, spec := range []struct {
		Name    string
		LeadIdx int
		Stage   domain.PipelineStage
	}{
		{Name: "Tractor purchase - Joao", LeadIdx: 0, Stage: entry},
		{Name: "Fleet renewal - Boa Vista", LeadIdx: 1, Stage: negotiationStage},
	} {
		deal := domain.Deal{
			Name:       spec.Name,
			LeadID:     leads[spec.LeadIdx].ID,
			PipelineID: pipeline.ID,
			StageID:    spec.Stage.ID,
			Status:     domain.DealInProgress,
			SaleStatus: domain.SaleNegotiation,
		}
		db.Create(&deal)

		db.Create(&domain.StageHistory{
			DealID:     deal.ID,
			StageID:    spec.Stage.ID,
			PipelineID: pipeline.ID,
			EnteredAt:  now,
		})
		db.Create(&domain.LeadActivity{
			DealID:      deal.ID,
			Type:        domain.ActivityDealCreated,
			Description: fmt.Sprintf("Deal created from lead %q", leads[spec.LeadIdx].Name),
		})

		if i == 1 {
			items := []domain.QuoteItem{
				{DealID: deal.ID, Description: "AM-350 tractor", Quantity: 2, UnitPrice: 185000},
				{DealID: deal.ID, Description: "Extended warranty", Quantity: 2, UnitPrice: 7500},
			}
			total := 0.0
			for j := range items {
				db.Create(&items[j])
				total += items[j].Total()
			}
			db.Model(&domain.Deal{}).Where("id = ?", deal.ID).Update("quote_value", total)
		}
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Admin: admin@pipecrm.local / admin123")
	log.Println("Sellers: marina@pipecrm.local, carlos@pipecrm.local / seller123")
}
