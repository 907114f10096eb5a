package main

import (
	"context"
	"time"

	"github.com/trezcool/shule/core/member"
	"github.com/trezcool/shule/core/user"
)

// seed loads the sample accounts and public faculty bios used by a fresh
// deployment. It only touches tables that are still empty, so re-running it
// is safe.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	count, err := cli.usrSvc.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		accounts := []user.NewUser{
			{
				Username:   "admin",
				Email:      "admin@globalhighschool.edu.in",
				Password:   "admin123",
				Name:       "Administrator",
				Role:       user.RoleAdmin,
				Title:      "System Administrator",
				Department: "Administration",
				IsAdmin:    true,
			},
			{
				Username:   "principal",
				Email:      "principal@globalhighschool.edu.in",
				Password:   "principal123",
				Name:       "Dr. Rajesh Kumar",
				Role:       user.RoleFaculty,
				Title:      "Principal",
				Department: "Administration",
			},
			{
				Username:   "maths",
				Email:      "maths@globalhighschool.edu.in",
				Password:   "maths123",
				Name:       "Mrs. Sunita Reddy",
				Role:       user.RoleFaculty,
				Title:      "Mathematics HOD",
				Department: "Mathematics",
			},
		}
		for _, nu := range accounts {
			if err := nu.Validate(cli.usrSvc); err != nil {
				return err
			}
			if _, err := cli.usrSvc.Create(ctx, nu); err != nil {
				return err
			}
		}
		logger.Printf("seeded %d sample accounts", len(accounts))
	}

	count, err = cli.memberSvc.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		now := time.Now().UTC()
		bios := []member.Member{
			{
				Name:           "Dr. Rajesh Kumar",
				Title:          "Principal",
				Qualification:  "Ph.D. in Education, M.Ed., B.Sc.",
				Description:    "Leading our institution with vision and dedication towards academic excellence.",
				ImagePath:      "https://images.unsplash.com/photo-1560250097-0b93528c311a?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
				Experience:     "25+ years",
				Specialization: "Educational Leadership",
				CreatedAt:      now,
				UpdatedAt:      now,
			},
			{
				Name:           "Mrs. Sunita Reddy",
				Title:          "Mathematics HOD",
				Qualification:  "M.Sc. Mathematics, B.Ed., M.Phil.",
				Description:    "Specialized in making complex mathematical concepts easy to understand.",
				ImagePath:      "https://images.unsplash.com/photo-1577881590026-6d5fd6c15037?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
				Experience:     "15 years",
				Specialization: "Algebra, Calculus",
				CreatedAt:      now,
				UpdatedAt:      now,
			},
		}
		for _, m := range bios {
			if _, err := cli.memberSvc.Create(ctx, m); err != nil {
				return err
			}
		}
		logger.Printf("seeded %d faculty bios", len(bios))
	}
	return nil
}
