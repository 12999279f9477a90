package services

import (
	"context"
	"fmt"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/myerrors"

	"golang.org/x/crypto/bcrypt"
)

// authorizeDevice checks the device exists, is serviceable and that the
// presented API key matches its stored bcrypt hash. Without a device
// registry collaborator the check is skipped.
func (s *TrackingService) authorizeDevice(deviceID, deviceKey string) error {
	if s.co.DevRepo == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(s.ctx, auditTimeout)
	defer cancel()

	dev, err := s.co.DevRepo.FindByID(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("%w: %s", myerrors.ErrDeviceNotFound, deviceID)
	}
	if dev.Status == model.DeviceStatusMaintenance {
		return fmt.Errorf("%w: device %s is under maintenance", myerrors.ErrDeviceUnauthorized, deviceID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(dev.APIKeyHash), []byte(deviceKey)); err != nil {
		return fmt.Errorf("%w: %s", myerrors.ErrDeviceUnauthorized, deviceID)
	}
	return nil
}

// HashDeviceKey produces the bcrypt hash stored for a device API key.
// Used by provisioning tooling, not the tracking hot path.
func HashDeviceKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash device key: %w", err)
	}
	return string(hash), nil
}
