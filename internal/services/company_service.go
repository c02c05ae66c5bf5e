package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/caching"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

// ErrCompanyNotFound covers every failed resolution path.
var ErrCompanyNotFound = errors.New("company not found")

// ErrSlugTaken mirrors the repository sentinel so handlers do not import
// repositories directly.
var ErrSlugTaken = repositories.ErrSlugTaken

// hostCacheTTL keeps resolution cheap while letting suspensions and
// domain changes propagate within a minute.
const hostCacheTTL = time.Minute

// CompanyService resolves tenants and manages their profiles.
type CompanyService interface {
	// ResolveHost maps a request hostname to a company via custom
	// domain, then platform subdomain, consulting the cache first.
	ResolveHost(ctx context.Context, host string) (*models.Company, error)
	// ResolveIdentifier treats the value as a slug first and falls back
	// to a UUID lookup.
	ResolveIdentifier(ctx context.Context, identifier string) (*models.Company, error)
	Create(ctx context.Context, company *models.Company) error
	UpdateProfile(ctx context.Context, company *models.Company) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, limit, offset int) ([]*models.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type companyService struct {
	companyRepo repositories.CompanyRepository
	cache       caching.CacheService
	// rootDomain is the platform apex, e.g. "flairecosystem.com".
	// Subdomains of it resolve by their first label.
	rootDomain string
}

func NewCompanyService(companyRepo repositories.CompanyRepository, cache caching.CacheService, rootDomain string) CompanyService {
	return &companyService{
		companyRepo: companyRepo,
		cache:       cache,
		rootDomain:  strings.ToLower(rootDomain),
	}
}

func (s *companyService) ResolveHost(ctx context.Context, host string) (*models.Company, error) {
	host = normalizeHost(host)
	if host == "" || host == s.rootDomain {
		return nil, ErrCompanyNotFound
	}

	if cached, err := s.cache.GetCompanyByHost(ctx, host); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: company host cache read failed: %v", err)
	}

	company, err := s.lookupHost(ctx, host)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetCompanyByHost(ctx, host, company, hostCacheTTL); err != nil {
		log.Printf("WARN: company host cache write failed: %v", err)
	}
	return company, nil
}

func (s *companyService) lookupHost(ctx context.Context, host string) (*models.Company, error) {
	// A custom domain wins over platform subdomains.
	company, err := s.companyRepo.GetByCustomDomain(ctx, host)
	if err == nil {
		return company, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	if s.rootDomain != "" && strings.HasSuffix(host, "."+s.rootDomain) {
		label := strings.TrimSuffix(host, "."+s.rootDomain)
		if label != "" && !strings.Contains(label, ".") {
			company, err = s.companyRepo.GetBySubdomain(ctx, label)
			if err == nil {
				return company, nil
			}
			if err != pgx.ErrNoRows {
				return nil, err
			}
			// Stores without an explicit subdomain answer on their slug.
			company, err = s.companyRepo.GetBySlug(ctx, label)
			if err == nil {
				return company, nil
			}
			if err != pgx.ErrNoRows {
				return nil, err
			}
		}
	}
	return nil, ErrCompanyNotFound
}

func (s *companyService) ResolveIdentifier(ctx context.Context, identifier string) (*models.Company, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrCompanyNotFound
	}

	company, err := s.companyRepo.GetBySlug(ctx, strings.ToLower(identifier))
	if err == nil {
		return company, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	id, parseErr := uuid.Parse(identifier)
	if parseErr != nil {
		return nil, ErrCompanyNotFound
	}
	company, err = s.companyRepo.GetByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrCompanyNotFound
	}
	return company, err
}

func (s *companyService) Create(ctx context.Context, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if company.Status == "" {
		company.Status = models.CompanyStatusActive
	}
	company.Slug = strings.ToLower(company.Slug)
	return s.companyRepo.Create(ctx, company)
}

func (s *companyService) UpdateProfile(ctx context.Context, company *models.Company) error {
	company.Slug = strings.ToLower(company.Slug)
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return err
	}
	s.invalidate(ctx, company.ID)
	return nil
}

func (s *companyService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if err := s.companyRepo.UpdateStatus(ctx, id, status); err != nil {
		if err == pgx.ErrNoRows {
			return ErrCompanyNotFound
		}
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *companyService) List(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	return s.companyRepo.List(ctx, limit, offset)
}

func (s *companyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrCompanyNotFound
	}
	return company, err
}

func (s *companyService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateCompanyCache(ctx, id); err != nil {
		log.Printf("WARN: failed to invalidate cache for company %s: %v", id, err)
	}
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}
