package ban

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"links-share-bot/pkg/validator"
)

// AdminChecker 判断用户是否为管理员或 owner
type AdminChecker interface {
	IsAdmin(userID int64) bool
}

type Service struct {
	store  Store
	admins AdminChecker
}

func NewService(store Store, admins AdminChecker) *Service {
	if store == nil {
		panic("ban.NewService: store cannot be nil")
	}
	if admins == nil {
		panic("ban.NewService: admins cannot be nil")
	}
	return &Service{store: store, admins: admins}
}

// Ban 批量封禁
// 跳过非数字、管理员、已封禁以及长度不是 9~10 位的 ID。
func (s *Service) Ban(ctx context.Context, inputs []string) (Report, error) {
	var report Report

	for _, in := range inputs {
		id, err := strconv.ParseInt(strings.TrimSpace(in), 10, 64)
		if err != nil {
			report.Outcomes = append(report.Outcomes, Outcome{Input: in, Result: ResultInvalidID})
			continue
		}

		if s.admins.IsAdmin(id) {
			report.Outcomes = append(report.Outcomes, Outcome{Input: in, ID: id, Result: ResultSkippedAdmin})
			continue
		}

		banned, err := s.store.Exists(ctx, id)
		if err != nil {
			return report, fmt.Errorf("check ban %d: %w", id, err)
		}
		if banned {
			report.Outcomes = append(report.Outcomes, Outcome{Input: in, ID: id, Result: ResultAlreadyBanned})
			continue
		}

		if err := validator.ValidateUserID(id); err != nil {
			report.Outcomes = append(report.Outcomes, Outcome{Input: in, ID: id, Result: ResultInvalidLength})
			continue
		}

		if err := s.store.Add(ctx, id); err != nil {
			if errors.Is(err, ErrAlreadyBanned) {
				report.Outcomes = append(report.Outcomes, Outcome{Input: in, ID: id, Result: ResultAlreadyBanned})
				continue
			}
			return report, fmt.Errorf("ban %d: %w", id, err)
		}
		report.Outcomes = append(report.Outcomes, Outcome{Input: in, ID: id, Result: ResultBanned})
	}

	return report, nil
}

// Unban 批量解封
func (s *Service) Unban(ctx context.Context, inputs []string) (Report, error) {
	var report Report

	for _, in := range inputs {
		id, err := strconv.ParseInt(strings.TrimSpace(in), 10, 64)
		if err != nil {
			report.Outcomes = append(report.Outcomes, Outcome{Input: in, Result: ResultInvalidID})
			continue
		}

		if err := s.store.Remove(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				report.Outcomes = append(report.Outcomes, Outcome{Input: in, ID: id, Result: ResultNotBanned})
				continue
			}
			return report, fmt.Errorf("unban %d: %w", id, err)
		}
		report.Outcomes = append(report.Outcomes, Outcome{Input: in, ID: id, Result: ResultUnbanned})
	}

	return report, nil
}

// UnbanAll 清空封禁名单
func (s *Service) UnbanAll(ctx context.Context) ([]int64, error) {
	ids, err := s.store.Clear(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear ban list: %w", err)
	}
	return ids, nil
}

func (s *Service) IsBanned(ctx context.Context, telegramID int64) (bool, error) {
	banned, err := s.store.Exists(ctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return banned, nil
}

func (s *Service) List(ctx context.Context) ([]int64, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banned users: %w", err)
	}
	return ids, nil
}
