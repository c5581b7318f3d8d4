// Package git checks interface files out of a Git repository.
//
// `idlwrap check --git` clones the configured repository (or reuses an earlier
// clone), reports the commit it checked and hands the interface files under
// the configured path to the checker.
//
// # Basic Usage
//
//	repo, err := git.NewRepository(&cfg.Source.Git)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := repo.Clone(ctx); err != nil {
//		log.Fatal(err)
//	}
//	head, _ := repo.Head()
//	files, _ := repo.ListFiles([]string{".i"}, true)
//
// # Authentication
//
//   - Token (HTTPS basic auth): set Token
//   - SSH key: set SSHKeyPath; the key file must not be group or world readable
//   - None: public repositories
package git
