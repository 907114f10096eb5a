package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/shule/core/member"
	"github.com/trezcool/shule/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sql.DB
	usrSvc    *user.Service
	memberSvc *member.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a database migration command (up, down, status, ...)")
	fmt.Println("  seed - load sample accounts and faculty bios into an empty database")
	fmt.Println("  addfaculty -username USERNAME -email EMAIL -name NAME [-title TITLE] [-department DEPT] [-admin] - create a faculty account")
	fmt.Println("  resetpassword -username USERNAME|EMAIL - reset an account's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addFacultyCmd := flag.NewFlagSet("addfaculty", flag.ExitOnError)
	addFacultyUname := addFacultyCmd.String("username", "", "The account's username.")
	addFacultyEmail := addFacultyCmd.String("email", "", "The account's email.")
	addFacultyName := addFacultyCmd.String("name", "", "The account holder's full name.")
	addFacultyTitle := addFacultyCmd.String("title", "", "Display title, eg. \"Mathematics HOD\".")
	addFacultyDept := addFacultyCmd.String("department", "", "Department name.")
	addFacultyAdmin := addFacultyCmd.Bool("admin", false, "Grant the admin role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The account's username or email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "addfaculty":
		if err := addFacultyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addFacultyUname == "" || *addFacultyEmail == "" || *addFacultyName == "" {
			addFacultyCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addFacultyCmd.Usage()
			return errHelp
		}
		return cli.addFaculty(*addFacultyUname, *addFacultyEmail, *addFacultyName, *addFacultyTitle, *addFacultyDept, pwd, *addFacultyAdmin)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
