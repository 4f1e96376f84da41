package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"procurement-system/internal/authz"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"

	"go.uber.org/zap"
)

type AccessPolicyServiceInterface interface {
	Check(ctx context.Context, permission string) error
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
	InvalidateRolePermissionsCache(ctx context.Context, roleID uint64) error
}

// AccessPolicyService resolves permission codes for the actor's role, with a
// Redis cache in front of the database and an unconditional superuser bypass.
type AccessPolicyService struct {
	permissionRepo repositories.PermissionRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
	cacheTTL       time.Duration
}

func NewAccessPolicyService(
	permissionRepo repositories.PermissionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) AccessPolicyServiceInterface {
	return &AccessPolicyService{
		permissionRepo: permissionRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
		cacheTTL:       cacheTTL,
	}
}

// Check fails with FORBIDDEN unless the actor's role carries the permission
// or the superuser code. It runs before any state is touched.
func (s *AccessPolicyService) Check(ctx context.Context, permission string) error {
	roleID, err := roleFromContext(ctx)
	if err != nil {
		return apperrors.NewForbiddenError("access denied")
	}

	permissions, err := s.GetRolePermissionsNames(ctx, roleID)
	if err != nil {
		return err
	}

	for _, p := range permissions {
		if p == authz.Superuser || p == permission {
			return nil
		}
	}

	s.logger.Warn("AccessPolicyService: permission denied",
		zap.Uint64("roleID", roleID),
		zap.String("permission", permission),
	)
	return apperrors.NewForbiddenError("access denied")
}

func (s *AccessPolicyService) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	cacheKey := fmt.Sprintf("auth:permissions:role:%d", roleID)
	var permissions []string

	cachedPermissionsJSON, errGet := s.cacheRepo.Get(ctx, cacheKey)
	if errGet == nil {
		if err := json.Unmarshal([]byte(cachedPermissionsJSON), &permissions); err == nil {
			return permissions, nil
		}
		s.logger.Warn("AccessPolicyService: failed to decode cached permissions",
			zap.String("key", cacheKey), zap.Uint64("roleID", roleID))
	}

	permissions, errDB := s.permissionRepo.GetPermissionsNamesByRoleID(ctx, roleID)
	if errDB != nil {
		s.logger.Error("AccessPolicyService: failed to load role permissions", zap.Uint64("roleID", roleID), zap.Error(errDB))
		return nil, apperrors.ErrInternalServer
	}

	if len(permissions) > 0 {
		permissionsJSON, errMarshal := json.Marshal(permissions)
		if errMarshal != nil {
			s.logger.Error("AccessPolicyService: failed to serialize permissions for cache", zap.Uint64("roleID", roleID), zap.Error(errMarshal))
		} else if errSet := s.cacheRepo.Set(ctx, cacheKey, string(permissionsJSON), s.cacheTTL); errSet != nil {
			s.logger.Error("AccessPolicyService: failed to cache role permissions", zap.Uint64("roleID", roleID), zap.Error(errSet))
		}
	}
	return permissions, nil
}

func (s *AccessPolicyService) InvalidateRolePermissionsCache(ctx context.Context, roleID uint64) error {
	cacheKey := fmt.Sprintf("auth:permissions:role:%d", roleID)
	if err := s.cacheRepo.Del(ctx, cacheKey); err != nil {
		s.logger.Error("AccessPolicyService: failed to invalidate permissions cache", zap.Uint64("roleID", roleID), zap.Error(err))
		return err
	}
	return nil
}
